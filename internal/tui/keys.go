package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the dashboard reacts to outside of forms.
type keyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Search   key.Binding
	Clear    key.Binding
	PrevMon  key.Binding
	NextMon  key.Binding
	ThisMon  key.Binding
	ForceOut key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceOut: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit now")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		NextTab:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→ l", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("← h", "previous tab")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k ↑", "move up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j ↓", "move down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		Add:      key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e ⏎", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear / cancel")),
		PrevMon:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous month")),
		NextMon:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		ThisMon:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "current month")),
	}
}

// helpSection is one titled block of the help overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{k.NextTab, k.PrevTab, k.Up, k.Down, k.Top, k.Bottom}},
		{"Records", []key.Binding{k.Add, k.Edit, k.Delete}},
		{"Transactions", []key.Binding{k.Search, k.Clear, k.PrevMon, k.NextMon, k.ThisMon}},
		{"General", []key.Binding{k.Help, k.Quit, k.ForceOut}},
	}
}
