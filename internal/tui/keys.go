package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Open     key.Binding
	Prev     key.Binding
	Next     key.Binding
	Rate     key.Binding
	Unrate   key.Binding
	Comment  key.Binding
	SaveNote key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "page")),
		NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "page")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Prev:     key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev")),
		Next:     key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next")),
		Rate:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rating")),
		Unrate:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unset")),
		Comment:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		SaveNote: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "keep comment")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) sessionHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevPage, k.NextPage, k.Open, k.Quit}
}

func (k keyMap) interactionHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Rate, k.Unrate, k.Comment, k.Back, k.Quit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.SaveNote, k.Back}
}
