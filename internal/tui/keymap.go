package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tatianab/wtii/internal/config"
)

// keyMap holds the roster bindings built from the configured keys. Arrow
// keys, esc and ctrl+c are fixed aliases.
type keyMap struct {
	NewEncounter   key.Binding
	SetInitiative  key.Binding
	Quit           key.Binding
	Unselect       key.Binding
	Next           key.Binding
	Prev           key.Binding
	PeekNext       key.Binding
	PeekPrev       key.Binding
	LowerHealth    key.Binding
	RaiseHealth    key.Binding
	Search         key.Binding
	InsertPlayer   key.Binding
	Delete         key.Binding
	SetDescription key.Binding
	Duplicate      key.Binding
	Narrate        key.Binding
	SaveParty      key.Binding
	ScrollUp       key.Binding
	ScrollDown     key.Binding
	Help           key.Binding

	// picker and prompt
	Confirm key.Binding
	Cancel  key.Binding
}

func newKeyMap(k config.KeyBindings) keyMap {
	return keyMap{
		NewEncounter:   bind("new encounter", k.NewEncounter),
		SetInitiative:  bind("initiative", k.SetInitiative),
		Quit:           bind("quit", k.Quit, "esc"),
		Unselect:       bind("unselect", k.UnselectAll),
		Next:           bind("next", k.MoveDown, "down"),
		Prev:           bind("prev", k.MoveUp, "up"),
		PeekNext:       bind("peek next", k.PeekDown),
		PeekPrev:       bind("peek prev", k.PeekUp),
		LowerHealth:    bind("-hp", k.LowerHealth, "left"),
		RaiseHealth:    bind("+hp", k.IncreaseHealth, "right"),
		Search:         bind("search", k.Search),
		InsertPlayer:   bind("add player", k.InsertPlayer),
		Delete:         bind("delete", k.Delete),
		SetDescription: bind("describe", k.SetDescription),
		Duplicate:      bind("duplicate", k.Duplicate),
		Narrate:        bind("narrate", k.Narrate),
		SaveParty:      bind("save party", k.SaveParty),
		ScrollUp:       bind("scroll info", "pgup"),
		ScrollDown:     bind("scroll info", "pgdown"),
		Help:           bind("help", "?"),
		Confirm:        bind("confirm", "enter"),
		Cancel:         bind("cancel", "esc"),
	}
}

// bind creates a binding whose help text shows the primary key plus any
// arrow alias.
func bind(desc, primary string, aliases ...string) key.Binding {
	label := primary
	for _, a := range aliases {
		switch a {
		case "down":
			label += "/↓"
		case "up":
			label += "/↑"
		case "left":
			label += "/←"
		case "right":
			label += "/→"
		}
	}
	return key.NewBinding(
		key.WithKeys(append([]string{primary}, aliases...)...),
		key.WithHelp(label, desc),
	)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.LowerHealth, k.RaiseHealth, k.SetInitiative, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.PeekNext, k.PeekPrev, k.Unselect},
		{k.LowerHealth, k.RaiseHealth, k.SetInitiative, k.SetDescription},
		{k.Search, k.InsertPlayer, k.Duplicate, k.Delete},
		{k.NewEncounter, k.SaveParty, k.Narrate, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}
