// Package popup is the terminal surface for copying and pasting tabs.
//
// It shows two buttons bound to keys, a checkbox selecting all windows
// instead of the current one, and a status line with the outcome of the
// last action.
package popup

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/tabcopy/pkg/types"
)

// Dispatcher runs a command. relay.Supervisor implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd types.Command) types.RelayResult
}

type status int

const (
	statusIdle status = iota
	statusBusy
	statusDone
	statusFailed
)

// resultMsg carries the outcome of a dispatched command back into Update.
type resultMsg struct {
	action types.CommandAction
	result types.RelayResult
}

// Model is the bubbletea model of the popup.
type Model struct {
	ctx        context.Context
	dispatcher Dispatcher

	allWindows  bool
	intelligent bool

	status  status
	message string

	spinner spinner.Model
	help    help.Model
}

// New creates the popup model. ctx bounds every dispatched command.
func New(ctx context.Context, dispatcher Dispatcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = busyStyle

	return Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		spinner:    s,
		help:       help.New(),
	}
}

// Run shows the popup until the user quits.
func Run(ctx context.Context, dispatcher Dispatcher) error {
	p := tea.NewProgram(New(ctx, dispatcher), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("popup failed: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.finish(msg)
		return m, nil

	case spinner.TickMsg:
		if m.status != statusBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.AllWindows):
		m.allWindows = !m.allWindows

	case key.Matches(msg, keys.Intelligent):
		m.intelligent = !m.intelligent

	case key.Matches(msg, keys.Copy):
		return m.start(types.CopyCommand{Scope: m.scope()}, "Copying...")

	case key.Matches(msg, keys.Paste):
		mode := types.ModeLineSplit
		if m.intelligent {
			mode = types.ModeRegexExtract
		}
		return m.start(types.PasteCommand{Mode: mode}, "Pasting...")
	}

	return m, nil
}

func (m Model) scope() types.Scope {
	if m.allWindows {
		return types.AllWindows()
	}
	return types.CurrentWindow()
}

// start dispatches cmd unless another command is still running.
func (m Model) start(cmd types.Command, message string) (tea.Model, tea.Cmd) {
	if m.status == statusBusy {
		return m, nil
	}

	m.status = statusBusy
	m.message = message

	ctx, dispatcher := m.ctx, m.dispatcher
	run := func() tea.Msg {
		return resultMsg{action: cmd.Action(), result: dispatcher.Dispatch(ctx, cmd)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *Model) finish(msg resultMsg) {
	if !msg.result.Success {
		m.status = statusFailed
		m.message = msg.result.ErrorMessage
		return
	}

	m.status = statusDone
	switch msg.action {
	case types.ActionCopy:
		m.message = fmt.Sprintf("%s copied", plural(msg.result.Count, "URL"))
	case types.ActionPaste:
		m.message = fmt.Sprintf("%s opened", plural(msg.result.Count, "tab"))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tabcopy"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render("Copy"),
		" ",
		buttonStyle.Render("Paste"),
	))
	b.WriteString("\n")

	b.WriteString(checkboxStyle.Render(checkbox(m.allWindows, "All windows")))
	b.WriteString("\n")
	b.WriteString(checkboxStyle.Render(checkbox(m.intelligent, "Intelligent paste")))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(keys))

	return containerStyle.Render(b.String())
}

func (m Model) statusLine() string {
	switch m.status {
	case statusBusy:
		return fmt.Sprintf("%s %s", m.spinner.View(), busyStyle.Render(m.message))
	case statusDone:
		return successStyle.Render(m.message)
	case statusFailed:
		return errorStyle.Render(m.message)
	default:
		return ""
	}
}

func checkbox(checked bool, label string) string {
	if checked {
		return "[x] " + label
	}
	return "[ ] " + label
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
