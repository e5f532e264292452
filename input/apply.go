package input

import (
	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/parameter"
)

// Apply performs a core mutation on the world
// Returns false for actions the host handles itself (camera, pause, quit)
func Apply(a Action, w *cloth.World) bool {
	switch a {
	case ActionToggleLRA:
		w.ToggleLRA()
	case ActionReset:
		w.BuildScene()
	case ActionSlackUp:
		w.AdjustLRASlack(parameter.ClothSlackStep)
	case ActionSlackDown:
		w.AdjustLRASlack(-parameter.ClothSlackStep)
	case ActionIterPreset1:
		w.SetIterations(parameter.ClothIterationPresets[0])
	case ActionIterPreset2:
		w.SetIterations(parameter.ClothIterationPresets[1])
	case ActionIterPreset3:
		w.SetIterations(parameter.ClothIterationPresets[2])
	case ActionIterPreset4:
		w.SetIterations(parameter.ClothIterationPresets[3])
	default:
		return false
	}
	return true
}
