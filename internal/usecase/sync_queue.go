package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/usecase/shared"
)

// Reasons a sync run did nothing.
const (
	SkipInFlight   = "sync already in progress"
	SkipNoIdentity = "no identity"
	SkipEmpty      = "queue empty"
)

// SyncQueueInput contains the parameters for a sync run.
type SyncQueueInput struct {
	MaxItems int // Max entries to attempt; must be positive
}

// SyncQueueOutput contains the result of a sync run.
// Fields are ordered to minimize memory padding.
type SyncQueueOutput struct {
	Skipped      string   // Why nothing ran; empty when the batch ran
	Warnings     []string // Tag errors swallowed while replaying
	DeadLettered []string // Entry IDs moved to the dead letters
	domain.SyncStats
}

// SyncQueue is the use case for replaying the outbox against the remote store.
// At most one run is in flight per SyncQueue; concurrent calls return immediately.
// Fields are ordered to minimize memory padding.
type SyncQueue struct {
	queue       domain.QueueStore
	writer      *shared.WriteProtocol
	identity    domain.IdentityProvider
	logger      domain.Logger
	maxAttempts int
	inFlight    atomic.Bool
}

// NewSyncQueue creates a new SyncQueue use case.
// maxAttempts > 0 dead-letters entries after that many failed attempts.
// Permanent rejections are dead-lettered on the first failure regardless.
func NewSyncQueue(queue domain.QueueStore, writer *shared.WriteProtocol, identity domain.IdentityProvider, logger domain.Logger, maxAttempts int) *SyncQueue {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &SyncQueue{
		queue:       queue,
		writer:      writer,
		identity:    identity,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Execute replays up to MaxItems of the oldest entries, one at a time, in order.
func (uc *SyncQueue) Execute(ctx context.Context, in SyncQueueInput) (*SyncQueueOutput, error) {
	if in.MaxItems <= 0 {
		return nil, domain.ErrInvalidMaxItems
	}

	if !uc.inFlight.CompareAndSwap(false, true) {
		uc.logger.Debug("sync", "skipped: another run in flight")
		return &SyncQueueOutput{Skipped: SkipInFlight}, nil
	}
	defer uc.inFlight.Store(false)

	id := uc.identity.Identity()
	if id.IsZero() {
		return &SyncQueueOutput{Skipped: SkipNoIdentity}, nil
	}

	entries, err := uc.queue.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	if len(entries) == 0 {
		return &SyncQueueOutput{Skipped: SkipEmpty}, nil
	}

	batch := entries
	if len(batch) > in.MaxItems {
		batch = batch[:in.MaxItems]
	}

	out := &SyncQueueOutput{}
	for _, entry := range batch {
		if err := ctx.Err(); err != nil {
			break
		}
		out.Attempted++

		res := uc.writer.Write(ctx, id, entry.Payload, domain.ModeTolerant)
		if res.OK() {
			if err := uc.queue.RemoveByID(ctx, entry.ID); err != nil {
				// The item is on the remote; the entry stays and replays idempotently.
				uc.logger.Error("sync", fmt.Sprintf("remove %s after success: %v", entry.ID, err))
				continue
			}
			out.Succeeded++
			out.Warnings = append(out.Warnings, res.Warnings...)
			continue
		}

		permanent := res.Stage == domain.StageNode && domain.Classify(res.Err).IsPermanent()
		if err := uc.recordFailure(ctx, entry, res.Describe(), permanent, out); err != nil {
			if !errors.Is(err, domain.ErrEntryNotFound) {
				return nil, err
			}
			// Another process already delivered or moved the entry.
			uc.logger.Warn("sync", fmt.Sprintf("%s gone while recording failure: %v", entry.ID, err))
		}
	}

	remaining, err := uc.queue.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count outbox: %w", err)
	}
	out.Remaining = remaining

	uc.logger.Info("sync", fmt.Sprintf("attempted=%d succeeded=%d remaining=%d", out.Attempted, out.Succeeded, out.Remaining))
	return out, nil
}

// recordFailure counts the failed attempt and dead-letters the entry when the
// remote rejected it for good or it ran out of attempts.
func (uc *SyncQueue) recordFailure(ctx context.Context, entry domain.QueueEntry, reason string, permanent bool, out *SyncQueueOutput) error {
	updated, err := uc.queue.UpdateAttempt(ctx, entry.ID, reason)
	if err != nil {
		return fmt.Errorf("record attempt for %s: %w", entry.ID, err)
	}
	uc.logger.Warn("sync", fmt.Sprintf("%s failed (attempt %d): %s", entry.ID, updated.Attempts, reason))

	if permanent || (uc.maxAttempts > 0 && updated.Attempts >= uc.maxAttempts) {
		if err := uc.queue.DeadLetter(ctx, entry.ID, reason); err != nil {
			return fmt.Errorf("dead-letter %s: %w", entry.ID, err)
		}
		out.DeadLettered = append(out.DeadLettered, entry.ID)
	}
	return nil
}
