package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Pick                  key.Binding
	Prev, Next            key.Binding
	Months, Years         key.Binding
	Clear                 key.Binding
	Reopen                key.Binding
	Focus                 key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Pick:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pick")),
		Prev:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
		Next:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		Months: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "months")),
		Years:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "years")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Reopen: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reopen")),
		Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "input/calendar")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Prev, k.Next, k.Months, k.Years, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Pick},
		{k.Prev, k.Next, k.Months, k.Years},
		{k.Clear, k.Reopen, k.Focus, k.Help, k.Quit},
	}
}

// domKey names a key the way the input guard sees keydown events.
func domKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	case tea.KeyTab, tea.KeyShiftTab:
		return "Tab"
	case tea.KeyEsc:
		return "Escape"
	case tea.KeyEnter:
		return "Enter"
	case tea.KeyLeft:
		return "ArrowLeft"
	case tea.KeyRight:
		return "ArrowRight"
	case tea.KeyUp:
		return "ArrowUp"
	case tea.KeyDown:
		return "ArrowDown"
	case tea.KeyHome:
		return "Home"
	case tea.KeyEnd:
		return "End"
	case tea.KeyBackspace:
		return "Backspace"
	case tea.KeyDelete:
		return "Delete"
	default:
		return msg.String()
	}
}
