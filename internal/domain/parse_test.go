package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParseCapture(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  CaptureRecord
	}{
		{
			name:  "tag and status",
			input: "Buy batteries #errands !inbox",
			want: CaptureRecord{
				Title:  "Buy batteries",
				Tags:   []string{"errands"},
				Status: StatusInbox,
			},
		},
		{
			name:  "unknown status falls through to title",
			input: "Task !bogus",
			want: CaptureRecord{
				Title: "Task !bogus",
				Tags:  []string{},
			},
		},
		{
			name:  "first context wins",
			input: "call mom @phone @home",
			want: CaptureRecord{
				Title:   "call mom",
				Context: "phone",
				Tags:    []string{},
			},
		},
		{
			name:  "tags are normalized and deduplicated",
			input: "#Work, plan #work #q3! #...",
			want: CaptureRecord{
				Title: "plan #...",
				Tags:  []string{"work", "q3"},
			},
		},
		{
			name:  "kind selector",
			input: "type:task renew passport",
			want: CaptureRecord{
				Title: "renew passport",
				Kind:  KindTask,
				Tags:  []string{},
			},
		},
		{
			name:  "unknown kind falls through",
			input: "type:note renew passport",
			want: CaptureRecord{
				Title: "type:note renew passport",
				Tags:  []string{},
			},
		},
		{
			name:  "malformed due date falls through",
			input: "pay rent due:2024-2-1",
			want: CaptureRecord{
				Title: "pay rent due:2024-2-1",
				Tags:  []string{},
			},
		},
		{
			name:  "impossible due date falls through",
			input: "pay rent due:2024-02-30",
			want: CaptureRecord{
				Title: "pay rent due:2024-02-30",
				Tags:  []string{},
			},
		},
		{
			name:  "energy and duration",
			input: "write report energy:high ~1h30m",
			want: CaptureRecord{
				Title:           "write report",
				Energy:          EnergyHigh,
				DurationMinutes: intPtr(90),
				Tags:            []string{},
			},
		},
		{
			name:  "bad duration falls through",
			input: "nap ~forever",
			want: CaptureRecord{
				Title: "nap ~forever",
				Tags:  []string{},
			},
		},
		{
			name:  "oversized duration falls through",
			input: "Estimate ~3000000000m",
			want: CaptureRecord{
				Title: "Estimate ~3000000000m",
				Tags:  []string{},
			},
		},
		{
			name:  "oversized hours fall through",
			input: "Estimate ~99999999999999999h",
			want: CaptureRecord{
				Title: "Estimate ~99999999999999999h",
				Tags:  []string{},
			},
		},
		{
			name:  "explicit title stops at next recognized token",
			input: "some notes title:Quarterly plan draft #work more notes",
			want: CaptureRecord{
				Title: "Quarterly plan draft",
				Body:  "some notes more notes",
				Tags:  []string{"work"},
			},
		},
		{
			name:  "bare title prefix",
			input: "title: Ship it !active",
			want: CaptureRecord{
				Title:  "Ship it",
				Status: StatusActive,
				Tags:   []string{},
			},
		},
		{
			name:  "empty input",
			input: "   ",
			want: CaptureRecord{
				Tags: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCapture(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCapture_DueDate(t *testing.T) {
	got := ParseCapture("dentist due:2025-03-14 !waiting")

	require.NotNil(t, got.DueAt)
	assert.Equal(t, Date{Year: 2025, Month: time.March, Day: 14}, *got.DueAt)
	assert.Equal(t, "dentist", got.Title)
	assert.Equal(t, StatusWaiting, got.Status)
}

func TestParseCapture_IsPure(t *testing.T) {
	line := "title:Plan trip #travel @laptop !someday due:2026-01-02 ~45m extra words"
	first := ParseCapture(line)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ParseCapture(line))
	}
}

func TestParseCapture_ValidAfterDefaults(t *testing.T) {
	rec := ParseCapture("Buy batteries #errands").WithDefaults()

	require.NoError(t, rec.Validate())
	assert.Equal(t, KindIdea, rec.Kind)
	assert.Equal(t, StatusInbox, rec.Status)
}
