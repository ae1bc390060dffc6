package popup

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	commands []types.Command
	result   types.RelayResult
}

func (d *recordingDispatcher) Dispatch(_ context.Context, cmd types.Command) types.RelayResult {
	d.commands = append(d.commands, cmd)
	return d.result
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(keyPress(r))
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

// runDispatch executes the dispatch half of the batch returned by start.
func runDispatch(t *testing.T, cmd tea.Cmd) resultMsg {
	t.Helper()
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(resultMsg); ok {
			return msg
		}
	}
	t.Fatal("no dispatch result in batch")
	return resultMsg{}
}

func TestCopy_CurrentWindow(t *testing.T) {
	d := &recordingDispatcher{result: types.Succeeded(3)}
	m := New(context.Background(), d)

	m, cmd := press(t, m, 'c')
	assert.Equal(t, statusBusy, m.status)
	assert.Contains(t, m.View(), "Copying...")

	msg := runDispatch(t, cmd)
	require.Len(t, d.commands, 1)
	assert.Equal(t, types.CopyCommand{Scope: types.CurrentWindow()}, d.commands[0])

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, statusDone, m.status)
	assert.Equal(t, "3 URLs copied", m.message)
}

func TestCopy_AllWindowsCheckbox(t *testing.T) {
	d := &recordingDispatcher{result: types.Succeeded(1)}
	m := New(context.Background(), d)

	m, _ = press(t, m, 'a')
	assert.True(t, m.allWindows)
	assert.Contains(t, m.View(), "[x] All windows")

	m, cmd := press(t, m, 'c')
	msg := runDispatch(t, cmd)
	assert.Equal(t, types.CopyCommand{Scope: types.AllWindows()}, d.commands[0])

	updated, _ := m.Update(msg)
	assert.Equal(t, "1 URL copied", updated.(Model).message)
}

func TestPaste_Modes(t *testing.T) {
	d := &recordingDispatcher{result: types.Succeeded(2)}
	m := New(context.Background(), d)

	m, cmd := press(t, m, 'p')
	msg := runDispatch(t, cmd)
	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "2 tabs opened", m.message)

	m, _ = press(t, m, 'i')
	_, cmd = press(t, m, 'p')
	runDispatch(t, cmd)

	require.Len(t, d.commands, 2)
	assert.Equal(t, types.PasteCommand{Mode: types.ModeLineSplit}, d.commands[0])
	assert.Equal(t, types.PasteCommand{Mode: types.ModeRegexExtract}, d.commands[1])
}

func TestFailureShowsError(t *testing.T) {
	d := &recordingDispatcher{result: types.Failed("No URL found in the clipboard")}
	m := New(context.Background(), d)

	m, cmd := press(t, m, 'p')
	updated, _ := m.Update(runDispatch(t, cmd))
	m = updated.(Model)

	assert.Equal(t, statusFailed, m.status)
	assert.Contains(t, m.View(), "No URL found in the clipboard")
}

func TestBusyIgnoresSecondCommand(t *testing.T) {
	d := &recordingDispatcher{result: types.Succeeded(1)}
	m := New(context.Background(), d)

	m, _ = press(t, m, 'c')
	_, cmd := press(t, m, 'p')
	assert.Nil(t, cmd)
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), &recordingDispatcher{})

	_, cmd := press(t, m, 'q')
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 URLs", plural(0, "URL"))
	assert.Equal(t, "1 URL", plural(1, "URL"))
	assert.Equal(t, "4 tabs", plural(4, "tab"))
}
