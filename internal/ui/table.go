package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/kasactl/internal/discovery"
)

// RenderDevices renders discovered devices as a table ordered by address
func RenderDevices(devices []discovery.Descriptor) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers("ADDRESS", "ALIAS", "MODEL", "KIND", "MAC")

	for _, d := range devices {
		t.Row(d.Addr.String(), d.Alias, d.Model, kindLabel(d), d.MAC)
	}
	return t.Render()
}

// RenderFields renders key/value lines aligned on the key column
func RenderFields(fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, ResultKeyStyle.Render(f.Key+":")+" "+ResultValueStyle.Render(f.Value))
	}
	return strings.Join(lines, "\n")
}

func kindLabel(d discovery.Descriptor) string {
	if d.Kind == discovery.KindStrip {
		return d.Kind.String() + " (" + strconv.Itoa(len(d.Children)) + ")"
	}
	return d.Kind.String()
}
