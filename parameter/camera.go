package parameter

import "math"

// Camera defaults for the terminal cloth view
const (
	// CameraDist is the initial eye distance from the cloth origin
	CameraDist = 3.5

	// CameraPitch is the initial pitch in radians (looking slightly down)
	CameraPitch = -15.0 * math.Pi / 180.0

	// CameraPanX, CameraPanY offset the view so the hanging cloth is centered
	CameraPanX = 0.0
	CameraPanY = -1.0

	// CameraFovY is the vertical field of view in radians
	CameraFovY = 45.0 * math.Pi / 180.0

	// CameraNear clips points behind or too close to the eye
	CameraNear = 0.01

	// CameraOrbitStep is radians per orbit key press
	CameraOrbitStep = 0.08

	// CameraPanStep is the pan distance per key press, scaled by eye distance
	CameraPanStep = 0.02

	// CameraZoomStep is the distance change per zoom key press
	CameraZoomStep = 0.2

	// CameraDistMin bounds zoom-in
	CameraDistMin = 0.5

	// CellAspect is terminal cell height over width
	CellAspect = 2.0

	// HudRows is the number of rows reserved at the bottom for status text
	HudRows = 2
)

// Mouse drag sensitivity for the terminal view, per cell moved
const (
	MouseOrbitPerCell = 0.03
	MousePanPerCell   = 0.006
)

// StretchTintFull is the local stretch ratio above rest (dist/rest - 1) drawn fully tinted
const StretchTintFull = 0.25
