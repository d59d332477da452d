package reader

import "charm.land/bubbles/v2/key"

// KeyMap holds the reader key bindings.
type KeyMap struct {
	Down       key.Binding
	Up         key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Narrower   key.Binding
	Wider      key.Binding
	PhraseMode key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Bookmark   key.Binding
	Copy       key.Binding
	AddTerm    key.Binding
	Bookmarks  key.Binding
	Search     key.Binding
	NextMatch  key.Binding
	PrevMatch  key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "line down")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "line up")),
		PageDown:   key.NewBinding(key.WithKeys("space", "pgdown", "f"), key.WithHelp("space", "page down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		HalfDown:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		HalfUp:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Narrower:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "narrower")),
		Wider:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "wider")),
		PhraseMode: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "word/phrase mode")),
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous word")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next word")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select word")),
		Bookmark:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "bookmark")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		AddTerm:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to vocabulary")),
		Bookmarks:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "bookmarks")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		NextMatch:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "previous match")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PageDown, k.Search, k.Bookmarks, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.PageDown, k.PageUp, k.HalfDown, k.HalfUp, k.Top, k.Bottom},
		{k.Left, k.Right, k.Select, k.PhraseMode, k.Clear, k.Narrower, k.Wider},
		{k.Bookmark, k.Copy, k.AddTerm, k.Bookmarks, k.Search, k.NextMatch, k.PrevMatch, k.Quit},
	}
}
