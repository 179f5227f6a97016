// Package tui is the interactive terminal host: a Bubble Tea program whose
// text input is the picker's host input and whose calendar is drawn from
// the picker's cells.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive picker and returns what the input holds when
// the user quits.
func Run(opts Options) (Outcome, error) {
	applyColorProfilePreference()
	applyThemePreference(opts.Palette)

	m, err := newModel(opts)
	if err != nil {
		return Outcome{}, err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return Outcome{}, err
	}
	fm, ok := final.(model)
	if !ok {
		return Outcome{}, fmt.Errorf("tui: unexpected final model %T", final)
	}
	return fm.outcome(), nil
}
