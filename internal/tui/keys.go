package tui

import "charm.land/bubbles/v2/key"

// KeyMap holds the bindings of the review screen.
type KeyMap struct {
	Comment     key.Binding
	Delete      key.Binding
	CommentMode key.Binding
	SwitchView  key.Binding
	MoreContext key.Binding
	LessContext key.Binding
	Preview     key.Binding
	Copy        key.Binding
	Finish      key.Binding
	Abort       key.Binding
}

// DefaultKeyMap returns the default review bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Comment:     key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "comment")),
		Delete:      key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		CommentMode: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "comment mode")),
		SwitchView:  key.NewBinding(key.WithKeys("tab", "v"), key.WithHelp("tab", "view")),
		MoreContext: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "context")),
		LessContext: key.NewBinding(key.WithKeys("-", "_")),
		Preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prompt")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Finish:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "finish")),
		Abort:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "abort")),
	}
}

// ShortHelp lists the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchView, k.Comment, k.Delete, k.MoreContext, k.Preview, k.Copy, k.Finish}
}
