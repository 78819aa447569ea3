package capture

import "github.com/runoshun/inbox/internal/usecase"

// Msg is the interface for all capture TUI messages.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgCaptured is sent when a capture attempt finishes.
type MsgCaptured struct {
	Out *usecase.CaptureItemOutput
	Err error
}

func (MsgCaptured) sealed() {}

// MsgDepthLoaded is sent when the queue depth has been read.
type MsgDepthLoaded struct {
	Err   error
	Depth int
}

func (MsgDepthLoaded) sealed() {}

// MsgQueueChanged is sent when the outbox changed.
type MsgQueueChanged struct{}

func (MsgQueueChanged) sealed() {}
