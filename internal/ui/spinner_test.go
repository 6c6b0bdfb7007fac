package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSpinner_NonInteractiveRunsTask(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)
	assert.False(t, s.Interactive)

	var reports []string
	err := s.Run("Discovering", func(report func(string)) error {
		report("round 1")
		reports = append(reports, "called")
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"called"}, reports)
	assert.Empty(t, buf.String())
}

func TestSpinner_NonInteractivePropagatesError(t *testing.T) {
	s := &Spinner{Out: &bytes.Buffer{}}
	want := errors.New("no route to host")

	err := s.Run("Discovering", func(func(string)) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestSpinnerModel_Lifecycle(t *testing.T) {
	m := newSpinnerModel("Looking for devices")
	assert.NotNil(t, m.Init())

	next, cmd := m.Update(statusMsg("attempt 1/3"))
	assert.Nil(t, cmd)
	m = next.(spinnerModel)
	assert.Contains(t, m.View(), "Looking for devices")
	assert.Contains(t, m.View(), "attempt 1/3")

	next, _ = m.Update(spinner.TickMsg{})
	m = next.(spinnerModel)
	assert.False(t, m.done)

	next, cmd = m.Update(taskDoneMsg{})
	m = next.(spinnerModel)
	assert.True(t, m.done)
	assert.Empty(t, m.View())
	if assert.NotNil(t, cmd) {
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}
