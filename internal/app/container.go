// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/infra/config"
	"github.com/runoshun/inbox/internal/infra/kvfile"
	"github.com/runoshun/inbox/internal/infra/kvsqlite"
	"github.com/runoshun/inbox/internal/infra/logging"
	"github.com/runoshun/inbox/internal/infra/notify"
	"github.com/runoshun/inbox/internal/infra/outbox"
	"github.com/runoshun/inbox/internal/infra/pgremote"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/runoshun/inbox/internal/usecase/shared"
)

// Config holds the application paths.
type Config struct {
	ConfigPath string // Optional config file given with --config
	DataDir    string // Directory holding logs (and the outbox by default)
	QueueDir   string // Directory holding the outbox
	LogPath    string // Log file; empty when logging is disabled
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Queue         domain.QueueStore
	Records       domain.RecordStore
	Tags          domain.TagStore
	Remote        domain.RemoteInitializer // nil when no remote is configured
	Identity      domain.IdentityProvider
	Changes       domain.ChangeSource
	Clock         domain.Clock
	Logger        domain.Logger
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	Diag      *slog.Logger // Human-facing diagnostics on stderr

	watch   func() (func() error, error)
	closers []func() error

	// Configuration
	Config Config
}

// New creates a new Container from the configuration files and environment.
func New(configPath string) (*Container, error) {
	configLoader := config.NewLoader(configPath)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir := config.DefaultDataDir()
	queueDir := appConfig.Queue.Dir
	if queueDir == "" {
		queueDir = dataDir
	}
	cfg := Config{
		ConfigPath: configPath,
		DataDir:    dataDir,
		QueueDir:   queueDir,
		LogPath:    logging.Path(appConfig.Log, dataDir),
	}

	fileLogger := logging.FromConfig(appConfig.Log, dataDir)
	c := &Container{
		Identity:      domain.StaticIdentity(appConfig.IdentityFromConfig()),
		Clock:         domain.RealClock{},
		Logger:        fileLogger,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(),
		AppConfig:     appConfig,
		Diag: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logging.ParseLevel(appConfig.Log.Level),
		})),
		Config:  cfg,
		closers: []func() error{fileLogger.Close},
	}

	backend, match, err := c.openBackend(appConfig.Queue.Backend, queueDir)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	changes := notify.NewBroadcaster()
	c.Changes = changes
	c.Queue = outbox.New(backend, changes, fileLogger, c.Clock)
	c.watch = func() (func() error, error) {
		if err := os.MkdirAll(queueDir, 0o750); err != nil {
			return nil, fmt.Errorf("create queue directory: %w", err)
		}
		fw := notify.NewFileWatcher(queueDir, match, changes, fileLogger)
		if err := fw.Start(); err != nil {
			return nil, err
		}
		return fw.Stop, nil
	}

	if appConfig.Remote.DSN == "" {
		c.Records = offlineRemote{}
		c.Tags = offlineRemote{}
	} else {
		store, err := pgremote.Open(context.Background(), appConfig.Remote.DSN, appConfig.Remote.ConnectTimeout)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Records = store
		c.Tags = store
		c.Remote = store
		c.closers = append(c.closers, func() error { store.Close(); return nil })
	}

	return c, nil
}

// openBackend opens the configured key-value backend and returns the queue
// file names another process would touch.
func (c *Container) openBackend(kind, dir string) (domain.KeyValueBackend, func(string) bool, error) {
	switch kind {
	case domain.BackendFile, "":
		return kvfile.New(dir), notify.MatchNames(domain.OutboxKey+".json", domain.DeadLetterKey+".json"), nil
	case domain.BackendSQLite:
		store, err := kvsqlite.Open(filepath.Join(dir, kvsqlite.FileName))
		if err != nil {
			return nil, nil, err
		}
		c.closers = append(c.closers, store.Close)
		return store, notify.MatchNames(kvsqlite.FileName, kvsqlite.FileName+"-wal"), nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, kind)
	}
}

// Deps holds the dependencies injected by NewWithDeps.
type Deps struct {
	Queue         domain.QueueStore
	Records       domain.RecordStore
	Tags          domain.TagStore
	Remote        domain.RemoteInitializer
	Identity      domain.IdentityProvider
	Changes       domain.ChangeSource
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	AppConfig     *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	appConfig := deps.AppConfig
	if appConfig == nil {
		appConfig = domain.NewDefaultConfig()
	}
	return &Container{
		Queue:         deps.Queue,
		Records:       deps.Records,
		Tags:          deps.Tags,
		Remote:        deps.Remote,
		Identity:      deps.Identity,
		Changes:       deps.Changes,
		Clock:         domain.RealClock{},
		Logger:        domain.NopLogger{},
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		AppConfig:     appConfig,
		Diag:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:        cfg,
	}
}

// Close releases open resources (database handles, log files).
func (c *Container) Close() error {
	var lastErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			lastErr = err
		}
	}
	c.closers = nil
	return lastErr
}

// WatchQueue starts relaying queue writes by other processes to Changes.
// The returned function stops watching.
func (c *Container) WatchQueue() (func() error, error) {
	if c.watch == nil {
		return func() error { return nil }, nil
	}
	return c.watch()
}

// UseCase factory methods

// WriteProtocol returns the write protocol bound to the remote stores.
func (c *Container) WriteProtocol() *shared.WriteProtocol {
	return shared.NewWriteProtocol(c.Records, c.Tags, c.Logger)
}

// CaptureItemUseCase returns a new CaptureItem use case.
func (c *Container) CaptureItemUseCase() *usecase.CaptureItem {
	return usecase.NewCaptureItem(c.Queue, c.WriteProtocol(), c.Identity, c.Logger)
}

// SyncQueueUseCase returns a new SyncQueue use case.
// It fails with domain.ErrNoRemote when no remote store is configured.
func (c *Container) SyncQueueUseCase() (*usecase.SyncQueue, error) {
	if c.Remote == nil {
		return nil, domain.ErrNoRemote
	}
	return usecase.NewSyncQueue(c.Queue, c.WriteProtocol(), c.Identity, c.Logger, c.AppConfig.Queue.MaxAttempts), nil
}

// SyncLoop returns a new SyncLoop driven by the [sync] settings.
func (c *Container) SyncLoop(onRun func(*usecase.SyncQueueOutput, error)) (*usecase.SyncLoop, error) {
	uc, err := c.SyncQueueUseCase()
	if err != nil {
		return nil, err
	}
	return usecase.NewSyncLoop(uc, c.Identity, c.Logger, usecase.SyncLoopConfig{
		Interval:  c.AppConfig.Sync.Interval,
		BatchSize: c.AppConfig.Sync.BatchSize,
		OnRun:     onRun,
	}), nil
}

// ListQueueUseCase returns a new ListQueue use case.
func (c *Container) ListQueueUseCase() *usecase.ListQueue {
	return usecase.NewListQueue(c.Queue)
}

// RequeueEntryUseCase returns a new RequeueEntry use case.
func (c *Container) RequeueEntryUseCase() *usecase.RequeueEntry {
	return usecase.NewRequeueEntry(c.Queue, c.Logger)
}

// PurgeEntryUseCase returns a new PurgeEntry use case.
func (c *Container) PurgeEntryUseCase() *usecase.PurgeEntry {
	return usecase.NewPurgeEntry(c.Queue, c.Logger)
}

// InitRemoteUseCase returns a new InitRemote use case.
func (c *Container) InitRemoteUseCase() (*usecase.InitRemote, error) {
	if c.Remote == nil {
		return nil, domain.ErrNoRemote
	}
	return usecase.NewInitRemote(c.Remote), nil
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Config.LogPath)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
