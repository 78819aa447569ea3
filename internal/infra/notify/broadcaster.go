// Package notify delivers queue change signals to interested consumers.
package notify

import (
	"sync"

	"github.com/runoshun/inbox/internal/domain"
)

// Broadcaster fans Notify calls out to every subscriber.
// Each subscriber has a one-slot buffer: sends never block and bursts coalesce.
type Broadcaster struct {
	subs   map[int]chan struct{}
	nextID int
	mu     sync.Mutex
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Ensure Broadcaster implements ChangeNotifier and ChangeSource.
var (
	_ domain.ChangeNotifier = (*Broadcaster)(nil)
	_ domain.ChangeSource   = (*Broadcaster)(nil)
)

// Notify signals all subscribers.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; calling it more than once is safe.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
