// Package kvfile provides a file-based implementation of KeyValueBackend.
// Each key is one file in a directory; writers serialize on a flock lock file.
package kvfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"syscall"

	"github.com/runoshun/inbox/internal/domain"
)

// validKey restricts keys to names that are safe as file names.
var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store implements domain.KeyValueBackend using one file per key.
type Store struct {
	dir      string
	lockPath string
}

// New creates a new Store rooted at dir.
// The directory does not need to exist; it will be created on first write.
func New(dir string) *Store {
	return &Store{
		dir:      dir,
		lockPath: filepath.Join(dir, ".lock"),
	}
}

// Ensure Store implements KeyValueBackend.
var _ domain.KeyValueBackend = (*Store)(nil)

// Location returns the directory holding the key files.
func (s *Store) Location() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the value stored under key under a shared lock.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, false, err
	}
	defer s.releaseLock(lock)

	return s.read(key)
}

// Update rewrites the value under key while holding the exclusive lock.
func (s *Store) Update(ctx context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	current, ok, err := s.read(key)
	if err != nil {
		return err
	}

	next, err := fn(current, ok)
	if err != nil {
		return err
	}

	return s.write(key, next)
}

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read(key string) ([]byte, bool, error) {
	content, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return content, true, nil
}

func (s *Store) write(key string, content []byte) error {
	path := s.Path(key)

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
