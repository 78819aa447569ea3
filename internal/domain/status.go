package domain

import "strings"

// Status represents the workflow state of a captured item.
// The zero value means "not set"; WithDefaults turns it into StatusInbox.
type Status string

const (
	StatusInbox    Status = "inbox"    // Captured, not yet triaged
	StatusActive   Status = "active"   // Being worked on
	StatusWaiting  Status = "waiting"  // Blocked on someone else
	StatusSomeday  Status = "someday"  // Parked for later
	StatusDone     Status = "done"     // Finished
	StatusArchived Status = "archived" // Kept for reference only
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusInbox,
		StatusActive,
		StatusWaiting,
		StatusSomeday,
		StatusDone,
		StatusArchived,
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusInbox, StatusActive, StatusWaiting, StatusSomeday, StatusDone, StatusArchived:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the item no longer needs attention.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusArchived
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusInbox:
		return "Inbox"
	case StatusActive:
		return "Active"
	case StatusWaiting:
		return "Waiting"
	case StatusSomeday:
		return "Someday"
	case StatusDone:
		return "Done"
	case StatusArchived:
		return "Archived"
	case "":
		return "-"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", false
	}
	return st, true
}

// Kind distinguishes ideas from actionable tasks.
type Kind string

const (
	KindIdea Kind = "idea"
	KindTask Kind = "task"
)

// IsValid returns true if the kind is a known valid value.
func (k Kind) IsValid() bool {
	return k == KindIdea || k == KindTask
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", false
	}
	return k, true
}

// Energy is the effort level a task needs.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// IsValid returns true if the energy is a known valid value.
func (e Energy) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// ParseEnergy parses an energy level case-insensitively.
func ParseEnergy(s string) (Energy, bool) {
	e := Energy(strings.ToLower(strings.TrimSpace(s)))
	if !e.IsValid() {
		return "", false
	}
	return e, true
}
