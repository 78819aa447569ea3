package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), "status %q should be valid", s)
	}
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("todo").IsValid())
	assert.False(t, Status("INBOX").IsValid())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input  string
		want   Status
		wantOK bool
	}{
		{"inbox", StatusInbox, true},
		{"Active", StatusActive, true},
		{" WAITING ", StatusWaiting, true},
		{"someday", StatusSomeday, true},
		{"done", StatusDone, true},
		{"archived", StatusArchived, true},
		{"bogus", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDone.IsTerminal())
	assert.True(t, StatusArchived.IsTerminal())
	assert.False(t, StatusInbox.IsTerminal())
	assert.False(t, StatusWaiting.IsTerminal())
}

func TestStatus_Display(t *testing.T) {
	assert.Equal(t, "Inbox", StatusInbox.Display())
	assert.Equal(t, "Someday", StatusSomeday.Display())
	assert.Equal(t, "-", Status("").Display())
	assert.Equal(t, "custom", Status("custom").Display())
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("TASK")
	assert.True(t, ok)
	assert.Equal(t, KindTask, k)

	_, ok = ParseKind("note")
	assert.False(t, ok)
}

func TestParseEnergy(t *testing.T) {
	e, ok := ParseEnergy("medium")
	assert.True(t, ok)
	assert.Equal(t, EnergyMedium, e)

	_, ok = ParseEnergy("extreme")
	assert.False(t, ok)
}
