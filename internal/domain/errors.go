package domain

import "errors"

// Domain errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidRecord   = errors.New("invalid capture record")
	ErrInvalidDate     = errors.New("invalid date (want YYYY-MM-DD)")
	ErrNoIdentity      = errors.New("no identity configured (set [identity] owner or INBOX_OWNER)")
	ErrEntryNotFound   = errors.New("queue entry not found")
	ErrLoopRunning     = errors.New("sync loop already running")
	ErrNoRemote        = errors.New("no remote configured (set [remote] dsn or INBOX_REMOTE_DSN)")
	ErrConfigExists    = errors.New("config file already exists")
	ErrUnknownBackend  = errors.New("unknown queue backend")
	ErrInvalidMaxItems = errors.New("max items must be positive")
	ErrNoLogFile       = errors.New("no log file")
)
