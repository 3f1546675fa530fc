package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/errors"
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/installer"
)

// maxLines bounds the output kept for the log pane.
const maxLines = 1000

const (
	defaultWidth  = 80
	logHeight     = 12
	chromeHeight  = 8 // title, status, bar, help and margins
	minLogHeight  = 3
	barPadding    = 4
	maxBarWidth   = 72
	progressRound = 100
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// Messages sent by Reporter.
type (
	statusMsg struct {
		message  string
		progress float64
	}
	outputMsg  string
	warningMsg string
	doneMsg    struct{ err error }
)

// Model is the bubbletea model for a running installation.
type Model struct {
	title    string
	status   string
	percent  float64
	lines    []string
	warnings []string

	bar     progress.Model
	spinner spinner.Model
	log     viewport.Model

	done    bool
	err     error
	aborted bool
	cancel  context.CancelFunc
}

// NewModel creates the progress view. cancel is called when the user aborts.
func NewModel(title string, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultWidth - barPadding

	log := viewport.New(defaultWidth, logHeight)
	log.Style = logStyle

	return Model{
		title:   title,
		bar:     bar,
		spinner: s,
		log:     log,
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-barPadding, maxBarWidth)
		m.log.Width = msg.Width
		m.log.Height = max(msg.Height-chromeHeight-len(m.warnings), minLogHeight)
		m.log.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if !m.done && !m.aborted {
				m.aborted = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, nil
		}

	case statusMsg:
		m.status = msg.message
		m.percent = msg.progress
		return m, nil

	case outputMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > maxLines {
			m.lines = m.lines[len(m.lines)-maxLines:]
		}
		m.log.SetContent(strings.Join(m.lines, "\n"))
		m.log.GotoBottom()
		return m, nil

	case warningMsg:
		m.warnings = append(m.warnings, string(msg))
		return m, nil

	case doneMsg:
		if m.done {
			return m, nil
		}
		m.done = true
		m.err = msg.err
		if msg.err == nil {
			m.percent = 1
		}
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	switch {
	case m.done && m.err == nil:
		b.WriteString(successStyle.Render("✓ " + m.status))
	case m.done:
		b.WriteString(errorStyle.Render("✗ " + m.status))
	default:
		b.WriteString(m.spinner.View() + " " + m.status)
	}
	b.WriteString("\n")

	b.WriteString(m.bar.ViewAs(m.percent))
	b.WriteString(fmt.Sprintf(" %3d%%", int(m.percent*progressRound+0.5)))
	b.WriteString("\n")

	if len(m.lines) > 0 {
		b.WriteString(m.log.View())
		b.WriteString("\n")
	}

	for _, w := range m.warnings {
		b.WriteString(warningStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}

	if m.done && m.err != nil {
		title, details := errors.Message(m.err)
		b.WriteString(errorStyle.Render(title))
		b.WriteString("\n")
		if details != "" {
			b.WriteString(detailStyle.Render(details))
			b.WriteString("\n")
		}
		return b.String()
	}
	if m.done {
		return b.String()
	}

	help := "[ctrl+c] Abort"
	if m.aborted {
		help = "Aborting..."
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// Done reports whether the run has finished.
func (m Model) Done() bool {
	return m.done
}

// Err returns the run's failure, if any.
func (m Model) Err() error {
	return m.err
}

// Sender delivers messages to a running program.
type Sender interface {
	Send(msg tea.Msg)
}

// Reporter forwards installer reports to the progress view.
type Reporter struct {
	sender Sender
}

var _ installer.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter that sends to s, typically a *tea.Program.
func NewReporter(s Sender) *Reporter {
	return &Reporter{sender: s}
}

func (r *Reporter) Status(message string, progress float64) {
	r.sender.Send(statusMsg{message: message, progress: progress})
}

func (r *Reporter) Output(line string) {
	r.sender.Send(outputMsg(line))
}

func (r *Reporter) Warning(message string) {
	r.sender.Send(warningMsg(message))
}

func (r *Reporter) Done(err error) {
	r.sender.Send(doneMsg{err: err})
}

// Job is the work shown by Run. It reports through r; calling r.Done is
// optional since Run reports the returned error as well.
type Job func(ctx context.Context, r installer.Reporter) error

// Run shows the progress view while job runs and returns the job's error.
// Aborting with ctrl+c cancels the job's context.
func Run(ctx context.Context, title string, job Job, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(title, cancel), opts...)
	reporter := NewReporter(p)

	jobErr := make(chan error, 1)
	go func() {
		err := job(ctx, reporter)
		// Unblocks the view if the job failed before reporting
		reporter.Done(err)
		jobErr <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-jobErr
		return fmt.Errorf("progress view failed: %w", err)
	}
	return <-jobErr
}
