package monitorui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	Back       key.Binding
	Forward    key.Binding
	Reset      key.Binding
	Coarser    key.Binding
	Finer      key.Binding
	StartLeft  key.Binding
	StartRight key.Binding
	EndLeft    key.Binding
	EndRight   key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Back:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		Forward:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "forward")),
		Reset:      key.NewBinding(key.WithKeys("r", "home"), key.WithHelp("r", "reset")),
		Coarser:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "coarser")),
		Finer:      key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "finer")),
		StartLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "move start")),
		StartRight: key.NewBinding(key.WithKeys("]")),
		EndLeft:    key.NewBinding(key.WithKeys("{"), key.WithHelp("{/}", "move end")),
		EndRight:   key.NewBinding(key.WithKeys("}")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// monitorHelp lists the bindings shown on the monitoring tab.
type monitorHelp struct{ keys keyMap }

func (h monitorHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextTab, h.keys.Back, h.keys.Forward, h.keys.Reset, h.keys.Coarser, h.keys.Finer, h.keys.Quit}
}

func (h monitorHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// summaryHelp lists the bindings shown on the summary tab.
type summaryHelp struct{ keys keyMap }

func (h summaryHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.NextTab, h.keys.Back, h.keys.Forward, h.keys.StartLeft, h.keys.EndLeft, h.keys.Reset, h.keys.Quit}
}

func (h summaryHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
