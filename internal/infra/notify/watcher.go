package notify

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/runoshun/inbox/internal/domain"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher turns writes to queue files by other processes into change
// notifications. Events for files not accepted by match are ignored.
// Fields are ordered to minimize memory padding.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	target   domain.ChangeNotifier
	logger   domain.Logger
	match    func(name string) bool
	done     chan struct{}
	dir      string
	wg       sync.WaitGroup
	debounce time.Duration
	mu       sync.Mutex
	running  bool
}

// NewFileWatcher creates a watcher for dir. match receives base file names.
func NewFileWatcher(dir string, match func(name string) bool, target domain.ChangeNotifier, logger domain.Logger) *FileWatcher {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &FileWatcher{
		dir:      dir,
		match:    match,
		target:   target,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// MatchNames returns a match function accepting the given base names.
func MatchNames(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[name]
		return ok
	}
}

// Start begins watching. The directory must exist.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.running {
		return fmt.Errorf("watcher already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(fw.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", fw.dir, err)
	}

	fw.watcher = watcher
	fw.done = make(chan struct{})
	fw.running = true
	fw.wg.Add(1)
	go fw.processEvents()

	return nil
}

// Stop stops watching and waits for the event goroutine to exit.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.done)
	err := fw.watcher.Close()
	fw.wg.Wait()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fw.logger.Debug("notify", "queue file changed on disk")
			fw.target.Notify()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("notify", fmt.Sprintf("watch error: %v", err))
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	return fw.match(filepath.Base(event.Name))
}
