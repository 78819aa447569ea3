package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/inbox/internal/domain"
)

// RequeueEntryInput contains the parameters for requeueing a dead letter.
type RequeueEntryInput struct {
	ID string
}

// RequeueEntryOutput contains the requeued entry.
type RequeueEntryOutput struct {
	Entry domain.QueueEntry
}

// RequeueEntry is the use case for giving a dead letter another round of retries.
type RequeueEntry struct {
	queue  domain.QueueStore
	logger domain.Logger
}

// NewRequeueEntry creates a new RequeueEntry use case.
func NewRequeueEntry(queue domain.QueueStore, logger domain.Logger) *RequeueEntry {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &RequeueEntry{queue: queue, logger: logger}
}

// Execute moves the dead letter back to the outbox tail.
func (uc *RequeueEntry) Execute(ctx context.Context, in RequeueEntryInput) (*RequeueEntryOutput, error) {
	entry, err := uc.queue.Requeue(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("requeue %s: %w", in.ID, err)
	}
	uc.logger.Info("queue", fmt.Sprintf("requeued %s (%q)", entry.ID, entry.Payload.Title))
	return &RequeueEntryOutput{Entry: entry}, nil
}

// PurgeEntryInput contains the parameters for deleting a dead letter.
type PurgeEntryInput struct {
	ID string
}

// PurgeEntryOutput is empty; success means the dead letter is gone.
type PurgeEntryOutput struct{}

// PurgeEntry is the use case for discarding a dead letter.
type PurgeEntry struct {
	queue  domain.QueueStore
	logger domain.Logger
}

// NewPurgeEntry creates a new PurgeEntry use case.
func NewPurgeEntry(queue domain.QueueStore, logger domain.Logger) *PurgeEntry {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &PurgeEntry{queue: queue, logger: logger}
}

// Execute deletes the dead letter.
func (uc *PurgeEntry) Execute(ctx context.Context, in PurgeEntryInput) (*PurgeEntryOutput, error) {
	if err := uc.queue.Purge(ctx, in.ID); err != nil {
		return nil, fmt.Errorf("purge %s: %w", in.ID, err)
	}
	uc.logger.Info("queue", "purged "+in.ID)
	return &PurgeEntryOutput{}, nil
}
