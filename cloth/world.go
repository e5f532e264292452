package cloth

import (
	"fmt"

	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/vmath"
)

// Params holds the simulation configuration
// Grid fields take effect on the next BuildScene, solver fields on the next Step
type Params struct {
	Width, Height int
	Spacing       float64

	Iterations int
	UseLRA     bool
	LRASlack   float64

	Gravity vmath.Vec3F
	Dt      float64
	Damping float64
}

// DefaultParams returns the hanging-cloth demo configuration
func DefaultParams() Params {
	return Params{
		Width:      parameter.ClothWidth,
		Height:     parameter.ClothHeight,
		Spacing:    parameter.ClothSpacing,
		Iterations: parameter.ClothIterations,
		UseLRA:     true,
		LRASlack:   parameter.ClothLRASlack,
		Gravity:    vmath.Vec3F{Y: parameter.ClothGravityY},
		Dt:         parameter.ClothDt,
		Damping:    parameter.ClothDamping,
	}
}

// Validate reports the first out-of-range field
func (p Params) Validate() error {
	switch {
	case p.Width < 1 || p.Height < 1:
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", p.Width, p.Height)
	case p.Spacing <= 0:
		return fmt.Errorf("spacing must be positive, got %g", p.Spacing)
	case p.Iterations < 1:
		return fmt.Errorf("iterations must be positive, got %d", p.Iterations)
	case p.LRASlack < 1:
		return fmt.Errorf("lra slack must be >= 1, got %g", p.LRASlack)
	case p.Dt <= 0:
		return fmt.Errorf("dt must be positive, got %g", p.Dt)
	case p.Damping < 0 || p.Damping > 1:
		return fmt.Errorf("damping must be within [0, 1], got %g", p.Damping)
	}
	return nil
}

// Option customizes topology construction
type Option func(*World)

// WithPinRule replaces the default top-corner pinning
func WithPinRule(rule PinRule) Option {
	return func(w *World) {
		w.pin = rule
	}
}

// WithAnchorSelector replaces nearest-Euclidean anchor selection
func WithAnchorSelector(sel AnchorSelector) Option {
	return func(w *World) {
		w.selector = sel
	}
}

// World owns the particle buffer and both constraint lists
type World struct {
	params   Params
	pin      PinRule
	selector AnchorSelector

	topo  Topology
	ticks uint64
}

// NewWorld creates a world and builds its scene
func NewWorld(p Params, opts ...Option) *World {
	w := &World{
		params:   p,
		pin:      PinTopCorners,
		selector: NearestAnchor{},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.BuildScene()
	return w
}

// BuildScene discards all particles and constraints and rebuilds them from the grid parameters
func (w *World) BuildScene() {
	TopologyBuilder{
		Width:    w.params.Width,
		Height:   w.params.Height,
		Spacing:  w.params.Spacing,
		Pin:      w.pin,
		Selector: w.selector,
	}.Build(&w.topo)
	w.ticks = 0
}

// Step advances the simulation by one Dt
//
// Predict, then Iterations × (every local constraint, then every LRA constraint
// if enabled), then DeriveVelocity. Each projection reads positions already
// corrected earlier in the same sweep
func (w *World) Step() {
	ps := w.topo.Particles
	p := &w.params

	Predict(ps, p.Gravity, p.Dt)

	for iter := 0; iter < p.Iterations; iter++ {
		// Local shape and wrinkles
		ProjectLocal(ps, w.topo.Local)

		// Global inextensibility, also clamps stretch the local sweep introduced
		if p.UseLRA {
			ProjectLRA(ps, w.topo.LRA, p.LRASlack)
		}
	}

	DeriveVelocity(ps, p.Dt, p.Damping)
	w.ticks++
}

// Params returns a copy of the current parameters
func (w *World) Params() Params {
	return w.params
}

// Ticks returns steps taken since the last BuildScene
func (w *World) Ticks() uint64 {
	return w.ticks
}

// Particles exposes the buffer for reading between steps; callers must not write to it
func (w *World) Particles() ParticleBuffer {
	return w.topo.Particles
}

// Positions copies particle positions into dst, growing it as needed
func (w *World) Positions(dst []vmath.Vec3F) []vmath.Vec3F {
	dst = dst[:0]
	for i := range w.topo.Particles {
		dst = append(dst, w.topo.Particles[i].Pos)
	}
	return dst
}

// LocalConstraints exposes the edge list read-only
func (w *World) LocalConstraints() []LocalConstraint {
	return w.topo.Local
}

// LRAConstraints exposes the attachment list read-only
func (w *World) LRAConstraints() []LRAConstraint {
	return w.topo.LRA
}

// Anchors returns pinned particle indices in build order
func (w *World) Anchors() []int {
	return w.topo.Anchors
}

// UseLRA reports whether the LRA sweep runs
func (w *World) UseLRA() bool {
	return w.params.UseLRA
}

// SetUseLRA enables or disables the LRA sweep from the next Step
func (w *World) SetUseLRA(on bool) {
	w.params.UseLRA = on
}

// ToggleLRA flips the LRA sweep and returns the new state
func (w *World) ToggleLRA() bool {
	w.params.UseLRA = !w.params.UseLRA
	return w.params.UseLRA
}

// LRASlack returns the current bound multiplier
func (w *World) LRASlack() float64 {
	return w.params.LRASlack
}

// SetLRASlack sets the bound multiplier, clamped to >= 1, and returns the applied value
// NaN clamps to 1
func (w *World) SetLRASlack(s float64) float64 {
	if !(s >= 1) {
		s = 1
	}
	w.params.LRASlack = s
	return s
}

// AdjustLRASlack adds delta to the slack, clamped to >= 1
func (w *World) AdjustLRASlack(delta float64) float64 {
	return w.SetLRASlack(w.params.LRASlack + delta)
}

// Iterations returns the solver sweep count
func (w *World) Iterations() int {
	return w.params.Iterations
}

// SetIterations sets the sweep count, clamped to >= 1
func (w *World) SetIterations(n int) {
	if n < 1 {
		n = 1
	}
	w.params.Iterations = n
}

// SetGrid stores new topology parameters, applied on the next BuildScene
func (w *World) SetGrid(width, height int, spacing float64) {
	w.params.Width = width
	w.params.Height = height
	w.params.Spacing = spacing
}

// Status formats the one-line solver summary shown by hosts
func (w *World) Status() string {
	lra := "OFF"
	if w.params.UseLRA {
		lra = "ON"
	}
	return fmt.Sprintf("LRA: %s | Slack: %.2f | Iters: %d", lra, w.params.LRASlack, w.params.Iterations)
}
