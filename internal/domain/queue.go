package domain

import "time"

// Well-known keys of the outbox collections in a KeyValueBackend.
const (
	OutboxKey     = "inbox.outbox"
	DeadLetterKey = "inbox.outbox.dead"
)

// QueueEntry is a capture waiting for remote confirmation.
// Fields are ordered to minimize memory padding.
type QueueEntry struct {
	CreatedAt time.Time
	ID        string
	LastError string
	Payload   CaptureRecord
	Attempts  int
}

// SyncStats summarizes a single sync run.
type SyncStats struct {
	Attempted int
	Succeeded int
	Remaining int
}
