package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Done      key.Binding
	Delete    key.Binding
	Search    key.Binding
	Sort      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Stats     key.Binding
	Journal   key.Binding
	Note      key.Binding
	Mark      key.Binding
	Milestone key.Binding
	Stop      key.Binding
	Guest     key.Binding
	New       key.Binding
	Switch    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "filters")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "goals")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	MoveUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	MoveDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	Stats:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stats")),
	Journal:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "log mood")),
	Note:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
	Mark:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark task")),
	Milestone: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "milestone from marked")),
	Stop:      key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "stop recurring")),
	Guest:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "guest")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new profile")),
	Switch:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "switch profile")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}
