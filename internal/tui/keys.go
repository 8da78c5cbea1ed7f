package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the board's bindings. It implements help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	New       key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var defaultKeys = keyMap{
	Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev column")),
	Right:     key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("→/l", "next column")),
	MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move card up")),
	MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move card down")),
	MoveLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move card left")),
	MoveRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move card right")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight, k.New, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.MoveUp, k.MoveDown, k.MoveLeft, k.MoveRight},
		{k.New, k.Refresh, k.Help, k.Quit},
	}
}
