package popup

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Copy        key.Binding
	Paste       key.Binding
	AllWindows  key.Binding
	Intelligent key.Binding
	Quit        key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Paste, k.AllWindows, k.Intelligent, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste"),
	),
	AllWindows: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all windows"),
	),
	Intelligent: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "intelligent paste"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
