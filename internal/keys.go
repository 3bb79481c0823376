package internal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle    key.Binding
	Reset     key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Flow      key.Binding
	Journal   key.Binding
	Profile   key.Binding
	Submit    key.Binding
	Up        key.Binding
	Down      key.Binding
	Switch    key.Binding
	Save      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "start/pause")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		NextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Flow:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "flow")),
		Journal:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "journal")),
		Profile:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "profile")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add note")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Switch:    key.NewBinding(key.WithKeys(" ", "space", "enter"), key.WithHelp("space", "toggle")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save settings")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// flowKeys, journalKeys and profileKeys implement help.KeyMap for each tab.
type flowKeys struct{ keyMap }

func (k flowKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.NextTab, k.Quit}
}

func (k flowKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type journalKeys struct{ keyMap }

func (k journalKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextTab, k.ForceQuit}
}

func (k journalKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type profileKeys struct{ keyMap }

func (k profileKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Save, k.NextTab, k.Quit}
}

func (k profileKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
