package domain

import "strings"

// WriteMode selects how the write protocol treats tag-stage failures.
type WriteMode int

const (
	// ModeStrict aborts on the first tag-stage error. Used for the first,
	// interactive attempt so the whole record can be queued again.
	ModeStrict WriteMode = iota
	// ModeTolerant collects tag-stage errors and still reports success.
	// Used when replaying the outbox.
	ModeTolerant
)

// String returns the mode name.
func (m WriteMode) String() string {
	if m == ModeTolerant {
		return "tolerant"
	}
	return "strict"
}

// WriteStage identifies which part of a capture write an outcome describes.
type WriteStage string

const (
	StageSuccess WriteStage = "success"
	StageNode    WriteStage = "node"
	StageTag     WriteStage = "tag"
)

// WriteOutcome is the discriminated result of one write protocol call.
//
//	StageSuccess: RemoteID set; Warnings holds tag errors swallowed in tolerant mode.
//	StageNode:    Err set; nothing was written.
//	StageTag:     RemoteID set (the item exists); TagErrors lists what failed.
type WriteOutcome struct {
	Err       error
	Stage     WriteStage
	RemoteID  string
	TagErrors []string
	Warnings  []string
}

// WriteSuccess returns a success outcome.
func WriteSuccess(remoteID string, warnings []string) WriteOutcome {
	return WriteOutcome{Stage: StageSuccess, RemoteID: remoteID, Warnings: warnings}
}

// NodeStageFailure returns an outcome for a failed primary insert.
func NodeStageFailure(err error) WriteOutcome {
	return WriteOutcome{Stage: StageNode, Err: err}
}

// TagStageFailure returns an outcome for an item whose tags are incomplete.
func TagStageFailure(remoteID string, tagErrors []string) WriteOutcome {
	return WriteOutcome{Stage: StageTag, RemoteID: remoteID, TagErrors: tagErrors}
}

// OK reports whether the outcome counts as delivered.
func (o WriteOutcome) OK() bool {
	return o.Stage == StageSuccess
}

// Describe summarizes the failure, or returns "" for a success.
func (o WriteOutcome) Describe() string {
	switch o.Stage {
	case StageNode:
		if o.Err != nil {
			return o.Err.Error()
		}
		return "item insert failed"
	case StageTag:
		return "tag stage failed: " + strings.Join(o.TagErrors, "; ")
	default:
		return ""
	}
}
