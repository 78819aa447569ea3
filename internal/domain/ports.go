package domain

import (
	"context"
	"time"
)

// RecordStore is the remote store holding captured items.
type RecordStore interface {
	// InsertItem creates the item owned by id and returns its remote ID.
	// It must be idempotent on rec.ClientID: inserting the same record twice
	// returns the same remote ID and creates nothing new.
	InsertItem(ctx context.Context, id Identity, rec CaptureRecord) (string, error)
}

// TagStore is the remote store holding tags and item-tag links.
type TagStore interface {
	// UpsertTag returns the ID of the owner's tag with this name, creating it if needed.
	UpsertTag(ctx context.Context, id Identity, name string) (string, error)

	// LinkTag associates a tag with an item. Linking twice is a no-op.
	LinkTag(ctx context.Context, id Identity, itemID, tagID string) error
}

// RemoteInitializer prepares the remote store for use.
type RemoteInitializer interface {
	// Ping checks that the remote store is reachable.
	Ping(ctx context.Context) error

	// EnsureSchema creates whatever the remote store needs. Safe to repeat.
	EnsureSchema(ctx context.Context) error
}

// KeyValueBackend persists opaque values under well-known keys.
type KeyValueBackend interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Update replaces the value under key with fn's result while holding
	// exclusive access, so concurrent writers cannot interleave.
	// When fn returns an error nothing is written.
	Update(ctx context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error

	// Location describes where values live (a path or DSN), for display and watching.
	Location() string
}

// QueueStore is the durable, ordered outbox of captures awaiting remote confirmation.
type QueueStore interface {
	// Append adds a new entry at the tail.
	Append(ctx context.Context, payload CaptureRecord) (QueueEntry, error)

	// ListAll returns all entries, oldest first.
	ListAll(ctx context.Context) ([]QueueEntry, error)

	// RemoveByID deletes an entry. Removing a missing entry returns ErrEntryNotFound.
	RemoveByID(ctx context.Context, id string) error

	// UpdateAttempt increments the attempt counter and records the error.
	UpdateAttempt(ctx context.Context, id, errMsg string) (QueueEntry, error)

	// Count returns the number of pending entries.
	Count(ctx context.Context) (int, error)

	// DeadLetter moves an entry out of the outbox into the dead-letter list.
	DeadLetter(ctx context.Context, id, reason string) error

	// ListDead returns dead-lettered entries, oldest first.
	ListDead(ctx context.Context) ([]QueueEntry, error)

	// Requeue moves a dead letter back to the outbox tail with attempts reset.
	Requeue(ctx context.Context, id string) (QueueEntry, error)

	// Purge deletes a dead letter for good.
	Purge(ctx context.Context, id string) error
}

// ChangeNotifier is told about every successful queue mutation.
type ChangeNotifier interface {
	Notify()
}

// ChangeSource lets consumers such as queue-depth badges follow queue changes.
type ChangeSource interface {
	// Subscribe returns a channel that receives a value after changes
	// (coalesced) and a function that ends the subscription.
	Subscribe() (<-chan struct{}, func())
}

// IdentityProvider returns the identity remote writes are scoped to.
// A zero Identity means the user is signed out.
type IdentityProvider interface {
	Identity() Identity
}

// StaticIdentity is an IdentityProvider with a fixed identity.
type StaticIdentity Identity

// Identity returns the fixed identity.
func (s StaticIdentity) Identity() Identity {
	return Identity(s)
}

// Logger writes categorized log lines.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults <- global <- override file <- env).
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitGlobalConfig writes a commented config template and returns its path.
	// Returns ErrConfigExists if the file is already present.
	InitGlobalConfig(cfg *Config) (string, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
