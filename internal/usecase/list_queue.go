package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/inbox/internal/domain"
)

// ListQueueInput contains the parameters for listing the outbox.
type ListQueueInput struct {
	Dead bool // List dead letters instead of pending entries
}

// ListQueueOutput contains the listed entries, oldest first.
type ListQueueOutput struct {
	Entries []domain.QueueEntry
}

// ListQueue is the use case for inspecting the outbox.
type ListQueue struct {
	queue domain.QueueStore
}

// NewListQueue creates a new ListQueue use case.
func NewListQueue(queue domain.QueueStore) *ListQueue {
	return &ListQueue{queue: queue}
}

// Execute lists pending entries or dead letters.
func (uc *ListQueue) Execute(ctx context.Context, in ListQueueInput) (*ListQueueOutput, error) {
	list := uc.queue.ListAll
	if in.Dead {
		list = uc.queue.ListDead
	}
	entries, err := list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return &ListQueueOutput{Entries: entries}, nil
}
