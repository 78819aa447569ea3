// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/runoshun/inbox/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockRecordStore is a test double for domain.RecordStore.
// Inserts are idempotent on ClientID like the real store.
// Fields are ordered to minimize memory padding.
type MockRecordStore struct {
	InsertErr error         // Returned by every call when set
	Errs      []error       // Returned by successive calls before succeeding
	Entered   chan struct{} // Receives a value when a call starts (optional)
	Gate      chan struct{} // Calls block until it yields or closes (optional)
	Items     map[string]domain.CaptureRecord
	Inserted  []domain.CaptureRecord
	Calls     int
	nextID    int
	mu        sync.Mutex
}

// NewMockRecordStore creates a new MockRecordStore.
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{Items: make(map[string]domain.CaptureRecord)}
}

// InsertItem records rec and returns its remote ID.
func (m *MockRecordStore) InsertItem(ctx context.Context, _ domain.Identity, rec domain.CaptureRecord) (string, error) {
	if m.Entered != nil {
		m.Entered <- struct{}{}
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.InsertErr != nil {
		return "", m.InsertErr
	}
	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		if err != nil {
			return "", err
		}
	}

	key := rec.ClientID
	if key == "" {
		m.nextID++
		key = fmt.Sprintf("anon-%d", m.nextID)
	}
	if _, ok := m.Items[key]; !ok {
		m.Inserted = append(m.Inserted, rec)
	}
	m.Items[key] = rec
	return "item-" + key, nil
}

// InsertedTitles returns the titles of distinct inserted records in insertion order.
func (m *MockRecordStore) InsertedTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, 0, len(m.Inserted))
	for _, rec := range m.Inserted {
		titles = append(titles, rec.Title)
	}
	return titles
}

// MockTagStore is a test double for domain.TagStore.
// Fields are ordered to minimize memory padding.
type MockTagStore struct {
	UpsertErrs map[string]error // Per tag name
	LinkErr    error
	Tags       map[string]string // name -> tag ID
	Links      map[string][]string
	mu         sync.Mutex
}

// NewMockTagStore creates a new MockTagStore.
func NewMockTagStore() *MockTagStore {
	return &MockTagStore{
		UpsertErrs: make(map[string]error),
		Tags:       make(map[string]string),
		Links:      make(map[string][]string),
	}
}

// UpsertTag returns the tag ID for name.
func (m *MockTagStore) UpsertTag(_ context.Context, _ domain.Identity, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.UpsertErrs[name]; err != nil {
		return "", err
	}
	if id, ok := m.Tags[name]; ok {
		return id, nil
	}
	id := "tag-" + name
	m.Tags[name] = id
	return id, nil
}

// LinkTag links itemID and tagID once.
func (m *MockTagStore) LinkTag(_ context.Context, _ domain.Identity, itemID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LinkErr != nil {
		return m.LinkErr
	}
	for _, linked := range m.Links[itemID] {
		if linked == tagID {
			return nil
		}
	}
	m.Links[itemID] = append(m.Links[itemID], tagID)
	return nil
}

// MockKeyValue is an in-memory domain.KeyValueBackend.
// Fields are ordered to minimize memory padding.
type MockKeyValue struct {
	GetErr    error
	UpdateErr error
	Values    map[string][]byte
	mu        sync.Mutex
}

// NewMockKeyValue creates a new MockKeyValue.
func NewMockKeyValue() *MockKeyValue {
	return &MockKeyValue{Values: make(map[string][]byte)}
}

// Get returns the stored value.
func (m *MockKeyValue) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

// Update applies fn to the stored value.
func (m *MockKeyValue) Update(_ context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	current, ok := m.Values[key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	m.Values[key] = next
	return nil
}

// Location returns a fixed description.
func (m *MockKeyValue) Location() string {
	return "memory"
}

// MockQueueStore is an in-memory domain.QueueStore.
// Fields are ordered to minimize memory padding.
type MockQueueStore struct {
	AppendErr error
	RemoveErr error
	Entries   []domain.QueueEntry
	Dead      []domain.QueueEntry
	nextID    int
	mu        sync.Mutex
}

// NewMockQueueStore creates a new MockQueueStore.
func NewMockQueueStore() *MockQueueStore {
	return &MockQueueStore{}
}

// Append adds payload at the tail.
func (m *MockQueueStore) Append(_ context.Context, payload domain.CaptureRecord) (domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendErr != nil {
		return domain.QueueEntry{}, m.AppendErr
	}
	m.nextID++
	entry := domain.QueueEntry{
		ID:        fmt.Sprintf("entry-%d", m.nextID),
		CreatedAt: time.Unix(int64(m.nextID), 0),
		Payload:   payload,
	}
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

// ListAll returns a copy of the pending entries.
func (m *MockQueueStore) ListAll(_ context.Context) ([]domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.QueueEntry{}, m.Entries...), nil
}

// RemoveByID deletes a pending entry.
func (m *MockQueueStore) RemoveByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	i := m.index(m.Entries, id)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
	return nil
}

// UpdateAttempt increments the attempt counter.
func (m *MockQueueStore) UpdateAttempt(_ context.Context, id, errMsg string) (domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(m.Entries, id)
	if i < 0 {
		return domain.QueueEntry{}, domain.ErrEntryNotFound
	}
	m.Entries[i].Attempts++
	m.Entries[i].LastError = errMsg
	return m.Entries[i], nil
}

// Count returns the number of pending entries.
func (m *MockQueueStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries), nil
}

// DeadLetter moves a pending entry to the dead letters.
func (m *MockQueueStore) DeadLetter(_ context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(m.Entries, id)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	entry := m.Entries[i]
	entry.LastError = reason
	m.Dead = append(m.Dead, entry)
	m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
	return nil
}

// ListDead returns a copy of the dead letters.
func (m *MockQueueStore) ListDead(_ context.Context) ([]domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.QueueEntry{}, m.Dead...), nil
}

// Requeue moves a dead letter back to the pending entries.
func (m *MockQueueStore) Requeue(_ context.Context, id string) (domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(m.Dead, id)
	if i < 0 {
		return domain.QueueEntry{}, domain.ErrEntryNotFound
	}
	entry := m.Dead[i]
	entry.Attempts = 0
	entry.LastError = ""
	m.Dead = append(m.Dead[:i], m.Dead[i+1:]...)
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

// Purge deletes a dead letter.
func (m *MockQueueStore) Purge(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(m.Dead, id)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	m.Dead = append(m.Dead[:i], m.Dead[i+1:]...)
	return nil
}

func (m *MockQueueStore) index(entries []domain.QueueEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

// MockNotifier counts change notifications.
type MockNotifier struct {
	count atomic.Int64
}

// Notify records a notification.
func (m *MockNotifier) Notify() {
	m.count.Add(1)
}

// Count returns the number of notifications so far.
func (m *MockNotifier) Count() int {
	return int(m.count.Load())
}

// MockLogger captures log lines as "LEVEL category: msg".
type MockLogger struct {
	Lines []string
	mu    sync.Mutex
}

func (m *MockLogger) add(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, level+" "+category+": "+msg)
}

// Debug records a debug line.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Info records an info line.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

// Snapshot returns a copy of the captured lines.
func (m *MockLogger) Snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.Lines...)
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr          error
	InitConfig       *domain.Config // Config passed to the last InitGlobalConfig call
	GlobalConfigInfo domain.ConfigInfo
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// GetGlobalConfigInfo returns the configured info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitGlobalConfig records cfg and returns the configured path.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.InitErr != nil {
		return m.GlobalConfigInfo.Path, m.InitErr
	}
	m.InitConfig = cfg
	return m.GlobalConfigInfo.Path, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader returning defaults.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockRemoteInitializer is a test double for domain.RemoteInitializer.
type MockRemoteInitializer struct {
	PingErr   error
	SchemaErr error
	Applied   int
}

// Ping returns PingErr.
func (m *MockRemoteInitializer) Ping(context.Context) error {
	return m.PingErr
}

// EnsureSchema counts applications.
func (m *MockRemoteInitializer) EnsureSchema(context.Context) error {
	if m.SchemaErr != nil {
		return m.SchemaErr
	}
	m.Applied++
	return nil
}

// Compile-time interface checks.
var (
	_ domain.RecordStore     = (*MockRecordStore)(nil)
	_ domain.TagStore        = (*MockTagStore)(nil)
	_ domain.KeyValueBackend = (*MockKeyValue)(nil)
	_ domain.QueueStore      = (*MockQueueStore)(nil)
	_ domain.ChangeNotifier  = (*MockNotifier)(nil)
	_ domain.Logger          = (*MockLogger)(nil)
	_ domain.Clock           = (*MockClock)(nil)
	_ domain.ConfigManager   = (*MockConfigManager)(nil)
	_ domain.ConfigLoader    = (*MockConfigLoader)(nil)

	_ domain.RemoteInitializer = (*MockRemoteInitializer)(nil)
)
