package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings shown in the help line. Letter keys are not
// listed; any a–z press types a letter.
type keyMap struct {
	Submit  key.Binding
	Delete  key.Binding
	NewGame key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "guess")),
		Delete:  key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "delete")),
		NewGame: key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter/n", "play again"), key.WithDisabled()),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Delete, k.NewGame, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// setGameOver switches bindings between playing and game-over modes.
func (k *keyMap) setGameOver(over bool) {
	k.Submit.SetEnabled(!over)
	k.Delete.SetEnabled(!over)
	k.NewGame.SetEnabled(over)
}
