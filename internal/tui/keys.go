package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down key.Binding
	Create   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Create, k.Edit, k.Delete, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

var (
	confirmYes = key.NewBinding(key.WithKeys("y", "Y"))
	confirmNo  = key.NewBinding(key.WithKeys("n", "N", "esc"))
	closeForm  = key.NewBinding(key.WithKeys("esc"))
	forceQuit  = key.NewBinding(key.WithKeys("ctrl+c"))
)
