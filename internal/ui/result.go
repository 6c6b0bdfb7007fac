package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/kasactl/internal/discovery"
)

// ResultType indicates success, failure or warning
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Field is one key/value line of a result box. Fields keep their order.
type Field struct {
	Key   string
	Value string
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType
	Title           string
	Fields          []Field
	Error           error
	Troubleshooting []string
	Width           int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, fields ...Field) *Result {
	return &Result{
		Type:   ResultSuccess,
		Title:  title,
		Fields: fields,
		Width:  GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, fields ...Field) *Result {
	return &Result{
		Type:   ResultWarning,
		Title:  title,
		Fields: fields,
		Width:  GetTerminalWidth(),
	}
}

// NewErrorResult builds a failure box for err. Resolution errors get their
// short message as the error line and their hints as troubleshooting tips.
func NewErrorResult(title string, err error) *Result {
	summary, tips := SplitHints(discovery.TroubleshootingHints(err))
	if summary != "" {
		tips = append([]string{summary}, tips...)
	}
	return NewFailureResult(title, shortError{err}, tips)
}

// shortError displays the short form of a resolution error
type shortError struct{ err error }

func (e shortError) Error() string { return discovery.ShortMessage(e.err) }
func (e shortError) Unwrap() error { return e.err }

// SplitHints separates a hint block into its leading summary and the
// bullet items that follow the "Troubleshooting:" line
func SplitHints(hints string) (string, []string) {
	var summary string
	var tips []string
	for _, line := range strings.Split(hints, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == "Troubleshooting:":
		case strings.HasPrefix(trimmed, "•"):
			tips = append(tips, strings.TrimSpace(strings.TrimPrefix(trimmed, "•")))
		case summary == "":
			summary = trimmed
		default:
			tips = append(tips, trimmed)
		}
	}
	return summary, tips
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddField appends a key/value line
func (r *Result) AddField(key, value string) *Result {
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var (
		title  string
		border lipgloss.Color
	)
	switch r.Type {
	case ResultFailure:
		title = ErrorTitleStyle.Render(fmt.Sprintf("   %s  FAILED  ─  %s", FailureMarker, r.Title))
		border = ErrorColor
	case ResultWarning:
		title = WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, r.Title))
		border = WarningColor
	default:
		title = SuccessTitleStyle.Render(fmt.Sprintf("   %s  SUCCESS  ─  %s", SuccessMarker, r.Title))
		border = SuccessColor
	}

	lines := []string{"", title, ""}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	for _, f := range r.Fields {
		lines = append(lines, ResultKeyStyle.Render("   "+f.Key+":")+" "+ResultValueStyle.Render(f.Value))
	}
	if len(r.Fields) > 0 {
		lines = append(lines, "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}

	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
