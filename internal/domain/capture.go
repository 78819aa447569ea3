// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

// MaxDurationMinutes is the largest estimate the remote integer column holds.
const MaxDurationMinutes = math.MaxInt32

// dateLayout is the only accepted textual form of a Date.
const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD date and rejects impossible calendar dates.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CaptureRecord is a single idea or task as entered by the user.
// Fields are ordered to minimize memory padding.
type CaptureRecord struct {
	DurationMinutes *int     `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`
	DueAt           *Date    `json:"dueAt,omitempty" yaml:"dueAt,omitempty"`
	ClientID        string   `json:"clientId,omitempty" yaml:"clientId,omitempty"` // Idempotency key of the remote insert
	Kind            Kind     `json:"kind" yaml:"kind"`
	Title           string   `json:"title" yaml:"title"`
	Body            string   `json:"body" yaml:"body"`
	Status          Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Context         string   `json:"context,omitempty" yaml:"context,omitempty"`
	Energy          Energy   `json:"energy,omitempty" yaml:"energy,omitempty"`
	Tags            []string `json:"tags" yaml:"tags"`
}

// WithDefaults returns a copy with kind and status defaulted, text trimmed
// and tags normalized. It never assigns a ClientID.
func (r CaptureRecord) WithDefaults() CaptureRecord {
	out := r
	out.Title = strings.TrimSpace(r.Title)
	out.Body = strings.TrimSpace(r.Body)
	out.Context = strings.TrimSpace(r.Context)
	if out.Kind == "" {
		out.Kind = KindIdea
	}
	if out.Status == "" {
		out.Status = StatusInbox
	}
	out.Tags = NormalizeTags(r.Tags)
	return out
}

// Validate checks the record invariants.
// All failures wrap ErrInvalidRecord; an empty title returns ErrEmptyTitle.
func (r CaptureRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if r.Kind != "" && !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, r.Kind)
	}
	if r.Status != "" && !r.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, r.Status)
	}
	if r.Energy != "" && !r.Energy.IsValid() {
		return fmt.Errorf("%w: unknown energy %q", ErrInvalidRecord, r.Energy)
	}
	if r.DurationMinutes != nil && *r.DurationMinutes < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidRecord)
	}
	if r.DurationMinutes != nil && *r.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration over %d minutes", ErrInvalidRecord, MaxDurationMinutes)
	}
	for _, tag := range r.Tags {
		if tag == "" || NormalizeTag(tag) != tag {
			return fmt.Errorf("%w: tag %q is not normalized", ErrInvalidRecord, tag)
		}
	}
	return nil
}

// NormalizeTag lowercases a tag and strips surrounding whitespace and punctuation.
// It returns "" when nothing is left.
func NormalizeTag(tag string) string {
	tag = strings.TrimFunc(tag, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToLower(tag)
}

// NormalizeTags normalizes every tag, drops empty ones and removes duplicates,
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		n := NormalizeTag(tag)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Identity is the opaque authenticated handle every remote write is scoped to.
type Identity struct {
	OwnerID string
}

// IsZero reports whether no identity is available.
func (i Identity) IsZero() bool {
	return strings.TrimSpace(i.OwnerID) == ""
}
