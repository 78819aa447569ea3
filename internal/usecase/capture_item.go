package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/usecase/shared"
)

// CaptureResult says what happened to a capture.
type CaptureResult string

// Capture results.
const (
	ResultSaved    CaptureResult = "saved"    // Written to the remote store
	ResultQueued   CaptureResult = "queued"   // Stored in the outbox, will sync
	ResultRejected CaptureResult = "rejected" // Permanently invalid, not stored
)

// CaptureItemInput contains the parameters for capturing an item.
// Exactly one of Line and Record is used; Record wins when both are set.
type CaptureItemInput struct {
	Record *domain.CaptureRecord // Structured form input
	Line   string                // Quick-entry line, parsed for tokens
}

// CaptureItemOutput contains the result of a capture.
// Fields are ordered to minimize memory padding.
type CaptureItemOutput struct {
	Entry    *domain.QueueEntry // Set when Result is ResultQueued
	Result   CaptureResult
	RemoteID string
	Reason   string
	Record   domain.CaptureRecord
	Warnings []string
}

// CaptureItem is the use case for capturing a thought.
// The first write is attempted directly; transient failures fall back to the outbox.
type CaptureItem struct {
	queue    domain.QueueStore
	writer   *shared.WriteProtocol
	identity domain.IdentityProvider
	logger   domain.Logger
	newID    func() string
}

// NewCaptureItem creates a new CaptureItem use case.
func NewCaptureItem(queue domain.QueueStore, writer *shared.WriteProtocol, identity domain.IdentityProvider, logger domain.Logger) *CaptureItem {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &CaptureItem{
		queue:    queue,
		writer:   writer,
		identity: identity,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Execute captures one item.
// An error is returned only when the capture could be neither written nor queued.
func (uc *CaptureItem) Execute(ctx context.Context, in CaptureItemInput) (*CaptureItemOutput, error) {
	var rec domain.CaptureRecord
	if in.Record != nil {
		rec = *in.Record
	} else {
		rec = domain.ParseCapture(in.Line)
	}
	rec = rec.WithDefaults()
	if rec.ClientID == "" {
		rec.ClientID = uc.newID()
	}

	if err := rec.Validate(); err != nil {
		return &CaptureItemOutput{Result: ResultRejected, Record: rec, Reason: err.Error()}, nil
	}

	id := uc.identity.Identity()
	if id.IsZero() {
		return uc.enqueue(ctx, rec, "no identity")
	}

	out := uc.writer.Write(ctx, id, rec, domain.ModeStrict)
	switch out.Stage {
	case domain.StageSuccess:
		uc.logger.Info("capture", fmt.Sprintf("saved %q as %s", rec.Title, out.RemoteID))
		return &CaptureItemOutput{Result: ResultSaved, Record: rec, RemoteID: out.RemoteID, Warnings: out.Warnings}, nil

	case domain.StageNode:
		verdict := domain.Classify(out.Err)
		if verdict.IsPermanent() {
			uc.logger.Warn("capture", fmt.Sprintf("rejected %q: %s", rec.Title, verdict.Reason))
			return &CaptureItemOutput{Result: ResultRejected, Record: rec, Reason: verdict.Reason}, nil
		}
		return uc.enqueue(ctx, rec, verdict.Reason)

	default:
		// The item exists remotely; replay is idempotent on ClientID and completes the tags.
		return uc.enqueue(ctx, rec, out.Describe())
	}
}

func (uc *CaptureItem) enqueue(ctx context.Context, rec domain.CaptureRecord, reason string) (*CaptureItemOutput, error) {
	entry, err := uc.queue.Append(ctx, rec)
	if err != nil {
		uc.logger.Error("capture", fmt.Sprintf("could not queue %q: %v", rec.Title, err))
		return nil, fmt.Errorf("queue capture after %q: %w", reason, err)
	}
	uc.logger.Info("capture", fmt.Sprintf("queued %q as %s: %s", rec.Title, entry.ID, reason))
	return &CaptureItemOutput{Result: ResultQueued, Record: rec, Entry: &entry, Reason: reason}, nil
}
