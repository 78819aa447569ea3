package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/inbox/internal/domain"
)

// SyncLoopConfig configures a SyncLoop.
type SyncLoopConfig struct {
	OnRun     func(*SyncQueueOutput, error) // Called after every run (optional)
	Interval  time.Duration                 // Time between periodic runs
	BatchSize int                           // MaxItems passed to each run
}

// SyncLoop runs SyncQueue periodically, once on start, and on demand.
// Every path goes through SyncQueue's in-flight guard.
// Fields are ordered to minimize memory padding.
type SyncLoop struct {
	sync     *SyncQueue
	identity domain.IdentityProvider
	logger   domain.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	trigger  chan struct{}
	cfg      SyncLoopConfig
	mu       sync.Mutex
}

// NewSyncLoop creates a new SyncLoop.
func NewSyncLoop(uc *SyncQueue, identity domain.IdentityProvider, logger domain.Logger, cfg SyncLoopConfig) *SyncLoop {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = domain.DefaultSyncInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultSyncBatchSize
	}
	return &SyncLoop{
		sync:     uc,
		identity: identity,
		logger:   logger,
		cfg:      cfg,
		trigger:  make(chan struct{}, 1),
	}
}

// Start launches the loop. It requires an identity and a stopped loop.
// The loop ends when ctx is canceled or Stop is called.
func (l *SyncLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return domain.ErrLoopRunning
	}
	if l.identity.Identity().IsZero() {
		return domain.ErrNoIdentity
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go l.run(loopCtx, done)
	l.logger.Info("sync", fmt.Sprintf("loop started (interval %s, batch %d)", l.cfg.Interval, l.cfg.BatchSize))
	return nil
}

// Stop cancels the loop and waits for it to exit. Stopping a stopped loop is a no-op.
func (l *SyncLoop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.logger.Info("sync", "loop stopped")
}

// Trigger requests a run as soon as possible. Requests made while one is
// pending collapse into one.
func (l *SyncLoop) Trigger() {
	select {
	case l.trigger <- struct{}{}:
	default:
	}
}

// Running reports whether the loop is started.
func (l *SyncLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *SyncLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.runOnce(ctx)
		case <-l.trigger:
			l.runOnce(ctx)
		}
	}
}

func (l *SyncLoop) runOnce(ctx context.Context) {
	out, err := l.sync.Execute(ctx, SyncQueueInput{MaxItems: l.cfg.BatchSize})
	if err != nil {
		l.logger.Error("sync", err.Error())
	}
	if l.cfg.OnRun != nil {
		l.cfg.OnRun(out, err)
	}
}
