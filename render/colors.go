package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for the cloth view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background

	RgbEdgeRest      = tcell.NewRGBColor(204, 204, 230) // Pale lavender
	RgbEdgeStretched = tcell.NewRGBColor(255, 140, 0)   // Orange at full tint
	RgbAttachment    = tcell.NewRGBColor(40, 110, 40)   // Dim green LRA lines

	RgbPinned = tcell.NewRGBColor(255, 51, 51)  // Red anchors
	RgbFree   = tcell.NewRGBColor(51, 102, 255) // Blue free particles

	RgbStatusBar = tcell.NewRGBColor(255, 255, 255)
	RgbHint      = tcell.NewRGBColor(120, 120, 135)
	RgbPaused    = tcell.NewRGBColor(255, 200, 50)
	RgbLRAOff    = tcell.NewRGBColor(255, 120, 120)
)

// lerpColor blends a→b by t in [0, 1]
func lerpColor(a, b tcell.Color, t float64) tcell.Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	mix := func(x, y int32) int32 {
		return x + int32(float64(y-x)*t)
	}
	return tcell.NewRGBColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

// stretchColor tints an edge from rest color toward orange as it stretches
func stretchColor(stretch, full float64) tcell.Color {
	if full <= 0 {
		return RgbEdgeRest
	}
	return lerpColor(RgbEdgeRest, RgbEdgeStretched, (stretch-1)/full)
}
