package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/music-manager/internal/config"
	"github.com/handiism/music-manager/internal/library"
	"github.com/handiism/music-manager/internal/rules"
)

func newTestModel(t *testing.T, location string) Model {
	t.Helper()
	settings := config.DefaultSettings()
	settings.LibraryLocation = location
	set, err := rules.Default()
	require.NoError(t, err)
	return NewModel(settings, set, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_ToggleOptions(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	assert.True(t, m.updateTags)
	assert.True(t, m.inferPath)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})

	assert.False(t, m.updateTags)
	assert.False(t, m.inferPath)
	assert.True(t, m.verbose)
	assert.Contains(t, m.View(), "[ ] Write updated tags")
}

func TestModel_EnterWithoutLocation(t *testing.T) {
	m := newTestModel(t, "")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, m.state)
}

func TestModel_RunClean(t *testing.T) {
	m := newTestModel(t, t.TempDir())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StateRunning, m.state)
	require.NotNil(t, m.manager)

	done, ok := m.runClean()().(RunDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = update(t, m, done)
	assert.Equal(t, StateComplete, m.state)
	assert.Contains(t, m.View(), "Clean Complete")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, StateInput, m.state)
	assert.Nil(t, m.manager)
}

func TestModel_CancelledRun(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, _ = update(t, m, RunDoneMsg{Err: m.ctx.Err()})
	assert.Equal(t, StateError, m.state)
	assert.ErrorIs(t, m.err, errCancelled)
}

func TestModel_LogsAreCapped(t *testing.T) {
	m := newTestModel(t, t.TempDir())
	m.addLog(library.ProgressEvent{Message: "hidden", Level: library.LevelVerbose})
	assert.Empty(t, m.logs)

	for i := 0; i < maxLogs+5; i++ {
		m.addLog(library.ProgressEvent{Message: fmt.Sprintf("event %d", i), Level: library.LevelInfo})
	}
	require.Len(t, m.logs, maxLogs)
	assert.Equal(t, "event 5", m.logs[0].Message)
}
