package domain

import (
	"errors"
	"fmt"
)

// RemoteErrorKind enumerates the failures a remote store adapter can report.
// Adapters translate their driver errors into one of these at the call boundary.
type RemoteErrorKind string

const (
	RemoteNotNull          RemoteErrorKind = "not_null"          // Required column missing
	RemoteCheckViolation   RemoteErrorKind = "check_violation"   // Check constraint rejected the value
	RemoteMalformedLiteral RemoteErrorKind = "malformed_literal" // Value could not be parsed by the store
	RemoteTooLong          RemoteErrorKind = "too_long"          // Value exceeds a length limit
	RemoteNetwork          RemoteErrorKind = "network"           // Store unreachable
	RemoteUnavailable      RemoteErrorKind = "unavailable"       // Store reachable but refusing work
	RemoteServer           RemoteErrorKind = "server"            // Any other server-side failure
	RemoteUnknown          RemoteErrorKind = "unknown"
)

// IsValidation reports whether the kind describes bad data rather than a bad moment.
func (k RemoteErrorKind) IsValidation() bool {
	switch k {
	case RemoteNotNull, RemoteCheckViolation, RemoteMalformedLiteral, RemoteTooLong:
		return true
	default:
		return false
	}
}

// RemoteError is the only error type remote store adapters return.
type RemoteError struct {
	Err     error
	Kind    RemoteErrorKind
	Code    string // Driver specific code, e.g. a SQLSTATE
	Message string
}

// NewRemoteError creates a RemoteError wrapping err.
func NewRemoteError(kind RemoteErrorKind, code string, err error) *RemoteError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &RemoteError{Kind: kind, Code: code, Message: msg, Err: err}
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote %s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("remote %s: %s", e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// AsRemoteError extracts a RemoteError from err's chain.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
