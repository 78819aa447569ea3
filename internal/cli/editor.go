package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// getEditor returns the user's preferred editor from environment variables.
// It checks EDITOR, then VISUAL, and defaults to vi.
func getEditor() string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}
	return editor
}

// openEditor opens the file in the user's editor and waits for it to exit.
func openEditor(filePath string) error {
	editor := getEditor()

	// EDITOR may carry arguments, e.g. "code --wait".
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], filePath)...) //nolint:gosec // editor comes from the user's environment
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}
	return nil
}

// editBody lets the user write a capture body, starting from initial.
// Surrounding whitespace is trimmed.
func editBody(initial string) (string, error) {
	f, err := os.CreateTemp("", "inbox-body-*.md")
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := openEditor(path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
