package input

import "github.com/gdamore/tcell/v2"

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (Esc, arrows, Ctrl+*)
	Keys map[tcell.Key]Action

	// Printable rune bindings
	Runes map[rune]Action
}

// DefaultKeyTable returns the built-in bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]Action{
			tcell.KeyEscape: ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyLeft:   ActionOrbitLeft,
			tcell.KeyRight:  ActionOrbitRight,
			tcell.KeyUp:     ActionOrbitUp,
			tcell.KeyDown:   ActionOrbitDown,
		},
		Runes: map[rune]Action{
			'l': ActionToggleLRA,
			'L': ActionToggleLRA,
			'r': ActionReset,
			'R': ActionReset,
			']': ActionSlackUp,
			'[': ActionSlackDown,
			'1': ActionIterPreset1,
			'2': ActionIterPreset2,
			'3': ActionIterPreset3,
			'4': ActionIterPreset4,

			'q': ActionQuit,
			' ': ActionPause,
			'n': ActionStepOnce,
			'v': ActionToggleAttachments,
			'm': ActionToggleMute,

			'a': ActionPanLeft,
			'd': ActionPanRight,
			'w': ActionPanUp,
			's': ActionPanDown,
			'+': ActionZoomIn,
			'=': ActionZoomIn,
			'-': ActionZoomOut,
		},
	}
}

// Lookup resolves a key event to its bound action
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (Action, bool) {
	if ev.Key() == tcell.KeyRune {
		a, ok := kt.Runes[ev.Rune()]
		return a, ok
	}
	a, ok := kt.Keys[ev.Key()]
	return a, ok
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	c := &KeyTable{
		Keys:  make(map[tcell.Key]Action, len(kt.Keys)),
		Runes: make(map[rune]Action, len(kt.Runes)),
	}
	for k, v := range kt.Keys {
		c.Keys[k] = v
	}
	for k, v := range kt.Runes {
		c.Runes[k] = v
	}
	return c
}
