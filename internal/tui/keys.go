package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	esc        key.Binding
	tab        key.Binding
	backtab    key.Binding
	quit       key.Binding
	forceQuit  key.Binding
	search     key.Binding
	sort       key.Binding
	favOnly    key.Binding
	typeFilter key.Binding
	favorite   key.Binding
	newItem    key.Binding
	edit       key.Binding
	delete     key.Binding
	copy       key.Binding
	copyUser   key.Binding
	reveal     key.Binding
	refresh    key.Binding
	logout     key.Binding
	switchMode key.Binding
	cycleType  key.Binding
	save       key.Binding
	yes        key.Binding
	no         key.Binding
	buildInfo  key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k")),
	down:       key.NewBinding(key.WithKeys("down", "j")),
	enter:      key.NewBinding(key.WithKeys("enter")),
	esc:        key.NewBinding(key.WithKeys("esc")),
	tab:        key.NewBinding(key.WithKeys("tab", "down")),
	backtab:    key.NewBinding(key.WithKeys("shift+tab", "up")),
	quit:       key.NewBinding(key.WithKeys("q")),
	forceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	search:     key.NewBinding(key.WithKeys("/")),
	sort:       key.NewBinding(key.WithKeys("o")),
	favOnly:    key.NewBinding(key.WithKeys("F")),
	typeFilter: key.NewBinding(key.WithKeys("t")),
	favorite:   key.NewBinding(key.WithKeys("*")),
	newItem:    key.NewBinding(key.WithKeys("n")),
	edit:       key.NewBinding(key.WithKeys("e")),
	delete:     key.NewBinding(key.WithKeys("d")),
	copy:       key.NewBinding(key.WithKeys("c")),
	copyUser:   key.NewBinding(key.WithKeys("u")),
	reveal:     key.NewBinding(key.WithKeys("p")),
	refresh:    key.NewBinding(key.WithKeys("r")),
	logout:     key.NewBinding(key.WithKeys("L")),
	switchMode: key.NewBinding(key.WithKeys("ctrl+r")),
	cycleType:  key.NewBinding(key.WithKeys("ctrl+t")),
	save:       key.NewBinding(key.WithKeys("ctrl+s")),
	yes:        key.NewBinding(key.WithKeys("y")),
	no:         key.NewBinding(key.WithKeys("n", "esc")),
	buildInfo:  key.NewBinding(key.WithKeys("v")),
}
