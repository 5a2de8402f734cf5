// Package tui provides a Bubble Tea terminal user interface for cleaning a
// music library.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/handiism/music-manager/internal/audio"
	"github.com/handiism/music-manager/internal/config"
	"github.com/handiism/music-manager/internal/library"
	"github.com/handiism/music-manager/internal/rules"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   library.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	rules     *rules.Set
	logger    *log.Logger
	logs      []LogEntry
	report    *library.Report
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *library.Manager
	events  chan library.ProgressEvent

	processed int32
	total     int32

	// Options
	updateTags bool
	inferPath  bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model. The location input starts with the
// library location from settings.
func NewModel(settings *config.Settings, set *rules.Set, logger *log.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	ti.SetValue(settings.LibraryLocation)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		rules:      set,
		logger:     logger,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		updateTags: settings.UpdateTags,
		inferPath:  settings.InferTagsFromPath,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one progress event of the running clean.
	ProgressMsg struct {
		Event library.ProgressEvent
	}

	// RunDoneMsg is sent when the clean finishes.
	RunDoneMsg struct {
		Report *library.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.start()
				return m, tea.Batch(m.runClean(), m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
			}

		case "ctrl+u":
			if m.state == StateInput {
				m.updateTags = !m.updateTags
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.inferPath = !m.inferPath
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.addLog(msg.Event)
		if m.state == StateRunning {
			cmds = append(cmds, m.waitForEvent())
		}

	case RunDoneMsg:
		m.report = msg.Report
		if m.manager != nil {
			m.processed, m.total = m.manager.Progress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			m.processed, m.total = m.manager.Progress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.processed) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start builds the manager for the entered location and options.
func (m *Model) start() {
	settings := *m.settings
	settings.LibraryLocation = strings.TrimSpace(m.textInput.Value())
	settings.UpdateTags = m.updateTags
	settings.InferTagsFromPath = m.inferPath

	events := make(chan library.ProgressEvent, 256)
	m.events = events
	m.manager = library.NewManager(&settings, audio.NewStore(), m.rules, m.logger, func(e library.ProgressEvent) {
		// Drop events rather than stall the workers when the UI lags.
		select {
		case events <- e:
		default:
		}
	})
	m.state = StateRunning
	m.textInput.Blur()
}

func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.report = nil
	m.err = nil
	m.processed = 0
	m.total = 0
	m.manager = nil
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

func (m *Model) addLog(e library.ProgressEvent) {
	if e.Level == library.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// runClean runs the clean in the background.
func (m Model) runClean() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		report, err := manager.Clean(ctx)
		return RunDoneMsg{Report: report, Err: err}
	}
}

// waitForEvent delivers the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ Music Manager"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Clean up the tags of your music library"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Library location:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Write updated tags (ctrl+u)\n", checkbox(m.updateTags)))
	b.WriteString(fmt.Sprintf("  %s Fill album and artist from folders (ctrl+p)\n", checkbox(m.inferPath)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Rules: %d loaded", m.rules.Len())))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Cleaning..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	r := m.report
	if r == nil {
		r = &library.Report{}
	}
	title := "✓ Clean Complete!"
	if !m.updateTags {
		title = "✓ Dry Run Complete!"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Files: %d\n"+
			"Changed: %d\n"+
			"Updated: %d\n"+
			"Unchanged: %d\n"+
			"Failed: %d\n"+
			"Time: %s",
		title,
		r.Files,
		r.Changed,
		r.Updated,
		r.Unchanged,
		r.Failed,
		r.Duration.Round(time.Millisecond),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case library.LevelError:
			style = errorStyle
			prefix = "✗"
		case library.LevelWarning:
			style = warningStyle
			prefix = "!"
		case library.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case library.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+u: write tags • ctrl+p: folders • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: run again • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, set *rules.Set, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(settings, set, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
