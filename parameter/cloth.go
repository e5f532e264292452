package parameter

// Cloth topology defaults, applied on scene (re)build
const (
	// ClothWidth is the particle count along X
	ClothWidth = 30

	// ClothHeight is the particle count along Y, taller than wide shows stretch better
	ClothHeight = 30

	// ClothSpacing is the rest distance between grid neighbours
	ClothSpacing = 0.05
)

// Solver configuration
const (
	// ClothDt is the fixed simulation step in seconds
	ClothDt = 1.0 / 60.0

	// ClothGravityY is the vertical gravity component
	ClothGravityY = -9.8

	// ClothDamping scales derived velocity every step to bleed energy
	ClothDamping = 0.99

	// ClothEpsilon guards projections against degenerate directions and zero mass sums
	ClothEpsilon = 1e-6

	// ClothIterations is the default solver sweep count, kept low to show the LRA benefit
	ClothIterations = 5

	// ClothLRASlack is the default bound multiplier, 1.0 permits no stretch
	ClothLRASlack = 1.0

	// ClothSlackStep is the slack increment per key press
	ClothSlackStep = 0.05

	// ClothFreeInvMass is the inverse mass assigned to every free particle
	ClothFreeInvMass = 1.0
)

// ClothIterationPresets are the iteration counts bound to the 1..4 keys
var ClothIterationPresets = [4]int{1, 2, 5, 10}
