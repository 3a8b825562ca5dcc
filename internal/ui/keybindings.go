package ui

import (
	"strings"

	"charm.land/bubbles/v2/key"
)

// KeyMap holds the host grid's own bindings. Key tip sequences are not
// listed here; they are routed through the keytip controller first.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	ExtendLeft  key.Binding
	ExtendRight key.Binding
	SelectAll   key.Binding
	Edit        key.Binding
	Clear       key.Binding
	Copy        key.Binding
	Cut         key.Binding
	Toggle      key.Binding
	Debug       key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the grid bindings. fallback names the key that
// toggles key tips on terminals that cannot report key releases; empty
// disables it.
func DefaultKeyMap(fallback string) KeyMap {
	km := KeyMap{
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "right")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "extend")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("⇧↓", "extend")),
		ExtendLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "extend")),
		ExtendRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "extend")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("^a", "select all")),
		Edit:        key.NewBinding(key.WithKeys("enter", "f2"), key.WithHelp("↵", "edit")),
		Clear:       key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "clear")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "copy")),
		Cut:         key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("^x", "cut")),
		Debug:       key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "events")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("^q", "quit")),
	}
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if fallback != "" {
		km.Toggle = key.NewBinding(key.WithKeys(fallback), key.WithHelp(fallback, "key tips"))
	} else {
		km.Toggle = key.NewBinding(key.WithDisabled())
	}
	return km
}

// FooterBindings lists the bindings shown in the footer.
func (k KeyMap) FooterBindings() []key.Binding {
	out := []key.Binding{k.Edit, k.Copy, k.Cut}
	if k.Toggle.Enabled() {
		out = append(out, k.Toggle)
	}
	return append(out, k.Quit)
}
