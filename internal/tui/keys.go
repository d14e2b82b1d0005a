package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	prevPage key.Binding
	nextPage key.Binding
	pageSize key.Binding
	open     key.Binding
	back     key.Binding
	forward  key.Binding
	mode     key.Binding
	search   key.Binding
	country  key.Binding
	age      key.Binding
	genre    key.Binding
	kind     key.Binding
	network  key.Binding
	years    key.Binding
	kp       key.Binding
	section  key.Binding
	movies   key.Binding
	random   key.Binding
	retry    key.Binding
	logout   key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prevPage: key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "previous page")),
		nextPage: key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
		pageSize: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
		open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("[", "esc", "backspace"), key.WithHelp("[", "back")),
		forward:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward")),
		mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "filters/name")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		country:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "countries")),
		age:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "age rating")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genres")),
		kind:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "types")),
		network:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "networks")),
		years:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "years")),
		kp:       key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "kp rating")),
		section:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "actors/comments")),
		movies:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "movies")),
		random:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		retry:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
		logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.search, k.mode, k.prevPage, k.nextPage, k.back, k.help, k.quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open, k.prevPage, k.nextPage, k.pageSize},
		{k.search, k.mode, k.country, k.age, k.years},
		{k.genre, k.kind, k.network, k.kp, k.section},
		{k.movies, k.random, k.back, k.forward, k.retry, k.logout, k.help, k.quit},
	}
}
