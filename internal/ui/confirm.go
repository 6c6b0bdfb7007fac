package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm displays a warning box and asks the user to type "yes". It
// returns true only for that exact answer.
func Confirm(in io.Reader, out io.Writer, title string, warnings []string) bool {
	width := GetTerminalWidth()

	lines := []string{
		"",
		WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	for _, w := range warnings {
		lines = append(lines, ResultValueStyle.Render("   • "+w))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprint(out, WarningTitleStyle.Render(`To proceed, type "yes" and press Enter: `))

	input, _ := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if strings.TrimSpace(input) == "yes" {
		return true
	}

	_, _ = fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}

// EraseStatsConfirmation asks before wiping the energy meter history of host
func EraseStatsConfirmation(in io.Reader, out io.Writer, host string) bool {
	return Confirm(in, out, "ERASE EMETER STATISTICS", []string{
		"All stored daily and monthly energy readings on " + host + " will be deleted",
		"The device keeps counting from zero afterwards",
		"This cannot be undone",
	})
}
