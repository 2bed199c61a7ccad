// Package tui renders live progress of a pipeline run in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#5A56E0")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeStepStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneStepStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStepStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	logStyle = lipgloss.NewStyle().Foreground(subtleColor)
)

// StepState is the progress of a single pipeline step.
type StepState string

const (
	StepStarted StepState = "started"
	StepSuccess StepState = "success"
	StepError   StepState = "error"
	StepSkipped StepState = "skipped"
)

// activityTimeout bounds how long the view waits for the next step update.
const activityTimeout = 30 * time.Second

// StepMsg reports a step transition.
type StepMsg struct {
	Step    string
	State   StepState
	Message string
}

// DoneMsg carries the final outcome of the run.
type DoneMsg struct {
	Success bool
	Output  string
}

// Model is the bubbletea model for a pipeline run.
type Model struct {
	spinner  spinner.Model
	title    string
	steps    []string
	current  int
	states   map[string]StepState
	logs     []string
	done     *DoneMsg
	quitting bool
	err      error
	updates  <-chan StepMsg
}

// NewModel creates a model for the given steps fed by updates.
func NewModel(title string, steps []string, updates <-chan StepMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner: s,
		title:   title,
		steps:   steps,
		states:  make(map[string]StepState),
		updates: updates,
	}
}

// Init starts the spinner and waits for the first update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepMsg:
		m.states[msg.Step] = msg.State
		if msg.Message != "" {
			m.logs = append(m.logs, fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), msg.Step, msg.Message))
		}
		for i, s := range m.steps {
			if s == msg.Step {
				m.current = i
				break
			}
		}
		if msg.State == StepError {
			m.err = fmt.Errorf("step %s failed: %s", msg.Step, msg.Message)
		}
		return m, m.waitForActivity()

	case DoneMsg:
		m.done = &msg
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// Result returns the final outcome once the run has finished.
func (m Model) Result() (DoneMsg, bool) {
	if m.done == nil {
		return DoneMsg{}, false
	}
	return *m.done, true
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.updates:
			if !ok {
				return DoneMsg{Success: m.err == nil}
			}
			return msg
		case <-time.After(activityTimeout):
			return DoneMsg{
				Success: false,
				Output:  "pipeline timed out waiting for activity",
			}
		}
	}
}

// View renders the step list and the most recent log lines.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(m.title))
	s.WriteString("\n\n")

	for i, step := range m.steps {
		prefix := "  "
		style := stepStyle

		if i == m.current {
			prefix = m.spinner.View() + " "
			style = activeStepStyle
		}

		switch m.states[step] {
		case StepSuccess:
			prefix = "✓ "
			style = doneStepStyle
		case StepError:
			prefix = "✗ "
			style = errorStepStyle
		case StepSkipped:
			prefix = "○ "
			style = stepStyle.Faint(true)
		}

		s.WriteString(style.Render(fmt.Sprintf("%s%s\n", prefix, step)))
	}

	s.WriteString("\nLogs:\n")
	start := 0
	if len(m.logs) > 5 {
		start = len(m.logs) - 5
	}
	for _, line := range m.logs[start:] {
		s.WriteString(logStyle.Render(line) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStepStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	s.WriteString(logStyle.Render("\nPress q to quit\n"))

	return s.String()
}
