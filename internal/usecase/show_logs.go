package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/inbox/internal/domain"
)

// ShowLogsInput contains the parameters for showing the log.
type ShowLogsInput struct {
	Category string // Only lines of this category, e.g. "sync" (empty = all)
	Lines    int    // Number of lines to display from the end (0 = all)
}

// ShowLogsOutput contains the result of showing the log.
type ShowLogsOutput struct {
	LogPath string // Path to the log file
	Content string // Log file content
}

// ShowLogs is the use case for viewing the capture and sync log.
type ShowLogs struct {
	logPath string
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(logPath string) *ShowLogs {
	return &ShowLogs{logPath: logPath}
}

// Execute reads and returns the log content.
func (uc *ShowLogs) Execute(_ context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	if uc.logPath == "" {
		return nil, domain.ErrNoLogFile
	}

	content, err := os.ReadFile(uc.logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoLogFile, uc.logPath)
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if in.Category != "" {
		marker := "[" + in.Category + "]"
		kept := lines[:0]
		for _, line := range lines {
			if strings.Contains(line, marker) {
				kept = append(kept, line)
			}
		}
		lines = kept
	}
	if in.Lines > 0 && len(lines) > in.Lines {
		lines = lines[len(lines)-in.Lines:]
	}

	result := strings.Join(lines, "\n")
	if result != "" {
		result += "\n"
	}
	return &ShowLogsOutput{
		LogPath: uc.logPath,
		Content: result,
	}, nil
}
