package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/kasactl/internal/discovery"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Finished without success
	StepSkipped                    // Not needed
)

// Step is one discovery attempt of an alias lookup
type Step struct {
	Number  int
	Name    string
	Status  StepStatus
	Message string
}

// AttemptProgress tracks the attempts of an alias lookup as a progress bar
// with one step per attempt
type AttemptProgress struct {
	Label   string
	Steps   []Step
	Current int
	Percent float64
	Width   int
	bar     progress.Model
}

// NewAttemptProgress creates a progress display for looking up alias with
// the given attempt budget
func NewAttemptProgress(alias string, attempts int) *AttemptProgress {
	steps := make([]Step, attempts)
	for i := range steps {
		steps[i] = Step{Number: i + 1, Name: "Discovery round", Status: StepPending}
	}
	p := &AttemptProgress{
		Label: fmt.Sprintf("Looking for %q...", alias),
		Steps: steps,
	}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sets the terminal width and resizes the bar to fit
func (p *AttemptProgress) SetWidth(width int) *AttemptProgress {
	p.Width = width
	barWidth := min(max(width-20, 20), 50)
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
	)
	return p
}

// Observe applies one state transition reported by the alias resolver
func (p *AttemptProgress) Observe(at discovery.Attempt) {
	if at.Number < 1 || at.Number > len(p.Steps) {
		return
	}
	step := &p.Steps[at.Number-1]

	switch at.State {
	case discovery.StateProbing:
		p.Current = at.Number
		step.Status = StepRunning
		step.Message = ""
	case discovery.StateIdle:
		step.Status = StepFailed
		if at.Err != nil {
			step.Message = "network error"
		} else {
			step.Message = fmt.Sprintf("%d device(s), no match", at.Devices)
		}
	case discovery.StateFound:
		step.Status = StepComplete
		step.Message = "found"
		for i := at.Number; i < len(p.Steps); i++ {
			p.Steps[i].Status = StepSkipped
		}
		p.Percent = 1
		return
	case discovery.StateExhausted:
		p.Percent = 1
		return
	}

	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepFailed || s.Status == StepSkipped {
			done++
		}
	}
	p.Percent = float64(done) / float64(len(p.Steps))
}

// Render returns the styled progress display as a string
func (p *AttemptProgress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, len(p.Steps))))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		lines = append(lines, p.renderStepLine(step))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}

func (p *AttemptProgress) renderStepLine(step Step) string {
	var (
		marker string
		style  lipgloss.Style
	)
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = "⊘", StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(p.Steps))
	b.WriteString(style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", max(30-lipgloss.Width(step.Name), 1)))
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *AttemptProgress) String() string {
	return p.Render()
}
