package internal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	CheckIn  key.Binding
	CheckOut key.Binding
	Log      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CheckIn, k.CheckOut, k.Log, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CheckIn, k.CheckOut},
		{k.Log, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		CheckIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "check-in"),
		),
		CheckOut: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "check-out"),
		),
		Log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "punch log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// syncEnabled greys out whichever punch is a no-op in the current state.
func (k *keyMap) syncEnabled(running bool) {
	k.CheckIn.SetEnabled(!running)
	k.CheckOut.SetEnabled(running)
}
