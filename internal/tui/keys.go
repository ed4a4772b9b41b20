package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus      key.Binding
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Ports      key.Binding
	Tabs       key.Binding
	Refresh    key.Binding
	Chart      key.Binding
	Analysis   key.Binding
	Command    key.Binding
	Param      key.Binding
	Presets    key.Binding
	Save       key.Binding
	Scroll     key.Binding
	Shutdown   key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Focus:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "ports/gallery")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect/select")),
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		Ports:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "reload ports")),
		Tabs:       key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "tab")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh charts")),
		Chart:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "chart")),
		Analysis:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analysis")),
		Command:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "raw command")),
		Param:      key.NewBinding(key.WithKeys("="), key.WithHelp("=", "parameter")),
		Presets:    key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9"), key.WithHelp("F1-F9", "presets")),
		Save:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "save image")),
		Scroll:     key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll log")),
		Shutdown:   key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "shutdown backend")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Enter, k.Tabs, k.Chart, k.Analysis, k.Command, k.Shutdown, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Up, k.Down, k.Enter},
		{k.Connect, k.Disconnect, k.Ports, k.Presets},
		{k.Tabs, k.Refresh, k.Save, k.Scroll},
		{k.Chart, k.Analysis, k.Command, k.Param},
		{k.Shutdown, k.Quit},
	}
}
