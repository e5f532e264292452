package input

// Action is a host-level command bound to a key
type Action uint8

const (
	ActionNone Action = iota // unbind sentinel

	// Core mutations
	ActionToggleLRA
	ActionReset
	ActionSlackUp
	ActionSlackDown
	ActionIterPreset1
	ActionIterPreset2
	ActionIterPreset3
	ActionIterPreset4

	// Host control
	ActionQuit
	ActionPause
	ActionStepOnce
	ActionToggleAttachments
	ActionToggleMute

	// Camera
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionZoomIn
	ActionZoomOut
)

// actionRegistry maps canonical action names to actions
// Used by the keymap config loader to resolve TOML action strings
var actionRegistry = map[string]Action{
	"none": ActionNone,

	"toggle_lra":    ActionToggleLRA,
	"reset":         ActionReset,
	"slack_up":      ActionSlackUp,
	"slack_down":    ActionSlackDown,
	"iter_preset_1": ActionIterPreset1,
	"iter_preset_2": ActionIterPreset2,
	"iter_preset_3": ActionIterPreset3,
	"iter_preset_4": ActionIterPreset4,

	"quit":               ActionQuit,
	"pause":              ActionPause,
	"step_once":          ActionStepOnce,
	"toggle_attachments": ActionToggleAttachments,
	"toggle_mute":        ActionToggleMute,

	"orbit_left":  ActionOrbitLeft,
	"orbit_right": ActionOrbitRight,
	"orbit_up":    ActionOrbitUp,
	"orbit_down":  ActionOrbitDown,
	"pan_left":    ActionPanLeft,
	"pan_right":   ActionPanRight,
	"pan_up":      ActionPanUp,
	"pan_down":    ActionPanDown,
	"zoom_in":     ActionZoomIn,
	"zoom_out":    ActionZoomOut,
}

var actionNames = func() map[Action]string {
	m := make(map[Action]string, len(actionRegistry))
	for name, a := range actionRegistry {
		m[a] = name
	}
	return m
}()

// ActionByName resolves a canonical action name
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
