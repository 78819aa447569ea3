// Package capture provides the quick-capture prompt.
package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/inbox/internal/usecase"
)

// maxHistory is the number of past results kept on screen.
const maxHistory = 5

// Capturer stores one capture.
type Capturer interface {
	Execute(ctx context.Context, in usecase.CaptureItemInput) (*usecase.CaptureItemOutput, error)
}

// DepthFunc returns the number of entries waiting in the outbox.
type DepthFunc func(ctx context.Context) (int, error)

// Model is the bubbletea model of the capture prompt.
type Model struct {
	capturer Capturer
	depth    DepthFunc
	changes  <-chan struct{}
	err      error
	styles   Styles
	keys     KeyMap
	history  []string
	input    textinput.Model
	queued   int
	busy     bool
}

// New creates a capture prompt. changes may be nil, in which case the
// badge only refreshes after captures made here.
func New(capturer Capturer, depth DepthFunc, changes <-chan struct{}) *Model {
	ti := textinput.New()
	ti.Placeholder = "Buy milk #errands @home ~15m"
	ti.CharLimit = 1000
	ti.Focus()

	return &Model{
		capturer: capturer,
		depth:    depth,
		changes:  changes,
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
		input:    ti,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadDepth(), m.waitForChange())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgCaptured:
		m.busy = false
		m.record(m.describe(msg))
		return m, m.loadDepth()

	case MsgDepthLoaded:
		m.err = msg.Err
		if msg.Err == nil {
			m.queued = msg.Depth
		}
		return m, nil

	case MsgQueueChanged:
		return m, tea.Batch(m.loadDepth(), m.waitForChange())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.busy {
			return m, nil
		}
		m.busy = true
		m.input.Reset()
		return m, m.capture(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) capture(line string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.capturer.Execute(context.Background(), usecase.CaptureItemInput{Line: line})
		return MsgCaptured{Out: out, Err: err}
	}
}

func (m *Model) loadDepth() tea.Cmd {
	if m.depth == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := m.depth(context.Background())
		return MsgDepthLoaded{Depth: n, Err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return MsgQueueChanged{}
	}
}

func (m *Model) describe(msg MsgCaptured) string {
	if msg.Err != nil {
		return m.styles.Rejected.Render("✗ not stored: " + msg.Err.Error())
	}
	out := msg.Out
	var line string
	switch out.Result {
	case usecase.ResultSaved:
		line = m.styles.Saved.Render("✓ saved: " + out.Record.Title)
	case usecase.ResultQueued:
		line = m.styles.Queued.Render("… queued, will sync: " + out.Record.Title)
	default:
		line = m.styles.Rejected.Render("✗ rejected: " + out.Reason)
	}
	for _, w := range out.Warnings {
		line += "\n  " + m.styles.Warning.Render(w)
	}
	return line
}

func (m *Model) record(line string) {
	m.history = append(m.history, line)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// Queued returns the queue depth shown in the badge.
func (m *Model) Queued() int {
	return m.queued
}

// View renders the prompt.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("inbox"))
	b.WriteString(" ")
	b.WriteString(m.viewBadge())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	for _, line := range m.history {
		b.WriteString("\n")
		b.WriteString(line)
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Rejected.Render("queue: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("%s %s • %s %s • %s %s",
		m.keys.Submit.Help().Key, m.keys.Submit.Help().Desc,
		m.keys.Clear.Help().Key, m.keys.Clear.Help().Desc,
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc)))
	return b.String()
}

func (m *Model) viewBadge() string {
	if m.queued == 0 {
		return m.styles.BadgeEmpty.Render("all synced")
	}
	return m.styles.BadgeQueue.Render(fmt.Sprintf("%d queued", m.queued))
}
