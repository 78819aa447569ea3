package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster_NotifyReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	a, stopA := b.Subscribe()
	c, stopC := b.Subscribe()
	defer stopA()
	defer stopC()

	b.Notify()

	assert.Len(t, a, 1)
	assert.Len(t, c, 1)
}

func TestBroadcaster_CoalescesBursts(t *testing.T) {
	b := NewBroadcaster()
	ch, stop := b.Subscribe()
	defer stop()

	for i := 0; i < 5; i++ {
		b.Notify()
	}

	assert.Len(t, ch, 1)
	<-ch
	assert.Empty(t, ch)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch, stop := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	stop()
	stop()

	assert.Zero(t, b.Subscribers())
	_, open := <-ch
	assert.False(t, open)
	b.Notify()
}

func TestBroadcaster_NotifyWithoutSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { NewBroadcaster().Notify() })
}
