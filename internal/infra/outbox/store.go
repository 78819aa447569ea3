// Package outbox implements the durable capture queue on top of a KeyValueBackend.
//
// The queue is one JSON array under domain.OutboxKey; dead letters live in a
// second array under domain.DeadLetterKey. Every mutation rewrites the whole
// array inside a single backend Update while holding the store mutex.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/runoshun/inbox/internal/domain"
)

// Store implements domain.QueueStore.
// Fields are ordered to minimize memory padding.
type Store struct {
	backend  domain.KeyValueBackend
	notifier domain.ChangeNotifier
	logger   domain.Logger
	clock    domain.Clock
	newID    func() string
	mu       sync.Mutex
}

// Ensure Store implements QueueStore.
var _ domain.QueueStore = (*Store)(nil)

// New creates a Store. notifier and logger may be nil.
func New(backend domain.KeyValueBackend, notifier domain.ChangeNotifier, logger domain.Logger, clock domain.Clock) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Store{
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		clock:    clock,
		newID:    uuid.NewString,
	}
}

// wireEntry is the persisted element shape.
// Required fields are pointers so that missing ones can be told apart from zero values.
type wireEntry struct {
	ID        *string               `json:"id"`
	CreatedAt *int64                `json:"createdAt"`
	Payload   *domain.CaptureRecord `json:"payload"`
	Attempts  *int                  `json:"attempts"`
	LastError string                `json:"lastError,omitempty"`
}

// Append adds payload at the tail of the outbox.
func (s *Store) Append(ctx context.Context, payload domain.CaptureRecord) (domain.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.QueueEntry{
		ID:        s.newID(),
		CreatedAt: time.UnixMilli(s.clock.Now().UnixMilli()),
		Payload:   payload,
	}

	err := s.mutate(ctx, domain.OutboxKey, func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return domain.QueueEntry{}, fmt.Errorf("append to outbox: %w", err)
	}

	s.logger.Debug("outbox", fmt.Sprintf("appended %s (%q)", entry.ID, payload.Title))
	return entry, nil
}

// ListAll returns all pending entries ordered by creation time.
func (s *Store) ListAll(ctx context.Context) ([]domain.QueueEntry, error) {
	return s.list(ctx, domain.OutboxKey)
}

// ListDead returns all dead letters ordered by creation time.
func (s *Store) ListDead(ctx context.Context) ([]domain.QueueEntry, error) {
	return s.list(ctx, domain.DeadLetterKey)
}

// Count returns the number of pending entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	entries, err := s.list(ctx, domain.OutboxKey)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// RemoveByID deletes a pending entry.
func (s *Store) RemoveByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutate(ctx, domain.OutboxKey, removeFn(id)); err != nil {
		return err
	}
	s.logger.Debug("outbox", "removed "+id)
	return nil
}

// UpdateAttempt increments the attempt counter of a pending entry and records errMsg.
func (s *Store) UpdateAttempt(ctx context.Context, id, errMsg string) (domain.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated domain.QueueEntry
	err := s.mutate(ctx, domain.OutboxKey, func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		entries[i].Attempts++
		entries[i].LastError = errMsg
		updated = entries[i]
		return entries, nil
	})
	if err != nil {
		return domain.QueueEntry{}, err
	}
	return updated, nil
}

// DeadLetter moves a pending entry to the dead-letter list.
// The entry is written to the dead letters before it leaves the outbox, so an
// interruption between the two writes duplicates it rather than losing it.
func (s *Store) DeadLetter(ctx context.Context, id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, domain.OutboxKey)
	if err != nil {
		return err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	entry := entries[i]
	entry.LastError = reason

	err = s.mutate(ctx, domain.DeadLetterKey, func(dead []domain.QueueEntry) ([]domain.QueueEntry, error) {
		if indexOf(dead, id) >= 0 {
			return dead, nil
		}
		return append(dead, entry), nil
	})
	if err != nil {
		return fmt.Errorf("write dead letter: %w", err)
	}
	if err := s.mutate(ctx, domain.OutboxKey, removeFn(id)); err != nil {
		return err
	}

	s.logger.Warn("outbox", fmt.Sprintf("dead-lettered %s after %d attempts: %s", id, entry.Attempts, reason))
	return nil
}

// Requeue moves a dead letter back to the outbox tail with attempts reset.
func (s *Store) Requeue(ctx context.Context, id string) (domain.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dead, err := s.load(ctx, domain.DeadLetterKey)
	if err != nil {
		return domain.QueueEntry{}, err
	}
	i := indexOf(dead, id)
	if i < 0 {
		return domain.QueueEntry{}, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	entry := dead[i]
	entry.Attempts = 0
	entry.LastError = ""
	entry.CreatedAt = time.UnixMilli(s.clock.Now().UnixMilli())

	err = s.mutate(ctx, domain.OutboxKey, func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		if indexOf(entries, id) >= 0 {
			return entries, nil
		}
		return append(entries, entry), nil
	})
	if err != nil {
		return domain.QueueEntry{}, fmt.Errorf("requeue: %w", err)
	}
	if err := s.mutate(ctx, domain.DeadLetterKey, removeFn(id)); err != nil {
		return domain.QueueEntry{}, err
	}

	s.logger.Info("outbox", "requeued "+id)
	return entry, nil
}

// Purge deletes a dead letter permanently.
func (s *Store) Purge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutate(ctx, domain.DeadLetterKey, removeFn(id)); err != nil {
		return err
	}
	s.logger.Info("outbox", "purged "+id)
	return nil
}

func (s *Store) list(ctx context.Context, key string) ([]domain.QueueEntry, error) {
	entries, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *Store) load(ctx context.Context, key string) ([]domain.QueueEntry, error) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []domain.QueueEntry{}, nil
	}
	return s.decode(key, raw), nil
}

// mutate runs fn over the decoded collection and persists the result.
// Callers must hold s.mu.
func (s *Store) mutate(ctx context.Context, key string, fn func([]domain.QueueEntry) ([]domain.QueueEntry, error)) error {
	err := s.backend.Update(ctx, key, func(current []byte, ok bool) ([]byte, error) {
		entries := []domain.QueueEntry{}
		if ok {
			entries = s.decode(key, current)
		}
		next, err := fn(entries)
		if err != nil {
			return nil, err
		}
		return encode(next)
	})
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify()
	}
	return nil
}

// decode parses a stored collection, dropping anything that is not a well-formed entry.
func (s *Store) decode(key string, raw []byte) []domain.QueueEntry {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		s.logger.Warn("outbox", fmt.Sprintf("%s is not a JSON array, treating as empty: %v", key, err))
		return []domain.QueueEntry{}
	}

	entries := make([]domain.QueueEntry, 0, len(elems))
	for i, elem := range elems {
		entry, ok := decodeEntry(elem)
		if !ok {
			s.logger.Warn("outbox", fmt.Sprintf("%s: dropping malformed element %d", key, i))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func decodeEntry(raw json.RawMessage) (domain.QueueEntry, bool) {
	var w wireEntry
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.QueueEntry{}, false
	}
	if w.ID == nil || *w.ID == "" || w.CreatedAt == nil || w.Payload == nil || w.Attempts == nil {
		return domain.QueueEntry{}, false
	}
	if strings.TrimSpace(w.Payload.Title) == "" {
		return domain.QueueEntry{}, false
	}
	return domain.QueueEntry{
		ID:        *w.ID,
		CreatedAt: time.UnixMilli(*w.CreatedAt),
		Payload:   *w.Payload,
		Attempts:  *w.Attempts,
		LastError: w.LastError,
	}, true
}

func encode(entries []domain.QueueEntry) ([]byte, error) {
	wire := make([]wireEntry, len(entries))
	for i := range entries {
		e := entries[i]
		createdAt := e.CreatedAt.UnixMilli()
		wire[i] = wireEntry{
			ID:        &e.ID,
			CreatedAt: &createdAt,
			Payload:   &e.Payload,
			Attempts:  &e.Attempts,
			LastError: e.LastError,
		}
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode outbox: %w", err)
	}
	return data, nil
}

func indexOf(entries []domain.QueueEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func removeFn(id string) func([]domain.QueueEntry) ([]domain.QueueEntry, error) {
	return func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		return append(entries[:i], entries[i+1:]...), nil
	}
}
