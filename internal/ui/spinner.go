package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/kasactl/internal/logging"
)

// Messages sent to the spinner model by the running task
type statusMsg string
type taskDoneMsg struct{}

// spinnerModel shows a spinner and the latest status of a running task
type spinnerModel struct {
	label   string
	status  string
	spinner spinner.Model
	done    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return spinnerModel{label: label, spinner: s}
}

// Init implements tea.Model
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = string(msg)
	case taskDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model. The view is empty once the task is done so
// the spinner leaves nothing behind.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	view := "  " + m.spinner.View() + " " + ProgressLabelStyle.UnsetPaddingLeft().Render(m.label)
	if m.status != "" {
		view += "\n\n" + m.status
	}
	return view + "\n"
}

// Task is work run under a spinner. It may call report any number of times
// with a rendered status block.
type Task func(report func(status string)) error

// Spinner runs tasks while showing progress on a terminal
type Spinner struct {
	Out io.Writer

	// Interactive selects the animated display; when false tasks run
	// silently and status reports go to the debug log
	Interactive bool
}

// NewSpinner creates a spinner writing to out. It animates only when out
// is the terminal.
func NewSpinner(out io.Writer) *Spinner {
	if out == nil {
		out = os.Stdout
	}
	return &Spinner{
		Out:         out,
		Interactive: out == io.Writer(os.Stdout) && IsTerminal(),
	}
}

// Run executes task and returns its error
func (s *Spinner) Run(label string, task Task) error {
	if !s.Interactive {
		return task(func(status string) {
			logging.Debug("Task status", zap.String("task", label), zap.String("status", status))
		})
	}

	p := tea.NewProgram(newSpinnerModel(label), tea.WithOutput(s.Out), tea.WithInput(nil))

	result := make(chan error, 1)
	go func() {
		err := task(func(status string) { p.Send(statusMsg(status)) })
		p.Send(taskDoneMsg{})
		result <- err
	}()

	_, uiErr := p.Run()
	err := <-result
	if err == nil && uiErr != nil {
		logging.Debug("Spinner display failed", zap.Error(uiErr))
	}
	return err
}
