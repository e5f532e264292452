package cloth

import (
	"math"
	"testing"

	"github.com/lixenwraith/lra-cloth/vmath"
)

// TestPredictAndDerive verifies explicit Euler and velocity derivation on a single particle
func TestPredictAndDerive(t *testing.T) {
	ps := ParticleBuffer{freeParticle(0, 1, 0), pinnedParticle(0, 2, 0)}
	ps[0].Vel = vmath.Vec3F{X: 1}
	g := vmath.Vec3F{Y: -10}
	const dt = 0.1

	Predict(ps, g, dt)

	if want := (vmath.Vec3F{X: 1, Y: -1}); vmath.V3FDist(ps[0].Vel, want) > eps {
		t.Errorf("Expected velocity %v, got %v", want, ps[0].Vel)
	}
	if want := (vmath.Vec3F{X: 0.1, Y: 0.9}); vmath.V3FDist(ps[0].Pos, want) > eps {
		t.Errorf("Expected position %v, got %v", want, ps[0].Pos)
	}
	if ps[0].Prev != (vmath.Vec3F{Y: 1}) {
		t.Errorf("Expected previous position {0 1 0}, got %v", ps[0].Prev)
	}
	if ps[1].Pos != (vmath.Vec3F{Y: 2}) || ps[1].Vel != (vmath.Vec3F{}) {
		t.Errorf("Expected pinned particle untouched, got %+v", ps[1])
	}

	// Simulate a projection pulling the particle back up, then derive
	ps[0].Pos = vmath.Vec3F{X: 0.1, Y: 1}
	DeriveVelocity(ps, dt, 0.5)

	if want := (vmath.Vec3F{X: 0.5}); vmath.V3FDist(ps[0].Vel, want) > eps {
		t.Errorf("Expected damped velocity %v, got %v", want, ps[0].Vel)
	}
}

// TestStepPinnedInvariance verifies anchors never move or gain velocity
func TestStepPinnedInvariance(t *testing.T) {
	for _, useLRA := range []bool{true, false} {
		p := DefaultParams()
		p.UseLRA = useLRA
		w := NewWorld(p)

		before := make(map[int]Particle)
		for _, a := range w.Anchors() {
			before[a] = w.Particles()[a]
		}

		for i := 0; i < 60; i++ {
			w.Step()
			for a, orig := range before {
				got := w.Particles()[a]
				if got.Pos != orig.Pos || got.Vel != orig.Vel {
					t.Fatalf("useLRA=%v tick %d: anchor %d moved from %+v to %+v", useLRA, i, a, orig, got)
				}
			}
		}
	}
}

// TestStepDeterministic verifies identical state yields bit-identical results
func TestStepDeterministic(t *testing.T) {
	w := NewWorld(DefaultParams())
	for i := 0; i < 20; i++ {
		w.Step()
	}

	snap := w.Snapshot()
	for i := 0; i < 30; i++ {
		w.Step()
	}
	first := w.Positions(nil)
	firstTicks := w.Ticks()

	if !w.Restore(snap) {
		t.Fatal("Expected restore to succeed")
	}
	for i := 0; i < 30; i++ {
		w.Step()
	}
	second := w.Positions(nil)

	if w.Ticks() != firstTicks {
		t.Errorf("Expected tick %d after replay, got %d", firstTicks, w.Ticks())
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("particle %d: replay diverged %v vs %v", i, first[i], second[i])
		}
	}

	// Independent worlds agree as well
	other := NewWorld(DefaultParams())
	for i := 0; i < 50; i++ {
		other.Step()
	}
	for i, p := range other.Positions(nil) {
		if p != second[i] {
			t.Fatalf("particle %d: independent world diverged %v vs %v", i, p, second[i])
		}
	}
}

// TestSnapshotDetached verifies snapshots are unaffected by later steps
func TestSnapshotDetached(t *testing.T) {
	p := DefaultParams()
	p.UseLRA = false
	w := NewWorld(p)
	snap := w.Snapshot()
	w.Step()

	if snap.Ticks != 0 {
		t.Errorf("Expected snapshot tick 0, got %d", snap.Ticks)
	}
	if snap.Particles[899].Pos == w.Particles()[899].Pos {
		t.Error("Expected snapshot to keep the pre-step position")
	}

	small := NewWorld(Params{Width: 2, Height: 2, Spacing: 0.1, Iterations: 1, LRASlack: 1, Dt: 0.01, Damping: 1})
	if small.Restore(snap) {
		t.Error("Expected restore to refuse a snapshot from another topology")
	}
}

// TestLRABoundsCloth runs the hanging-cloth scenario with and without LRA
func TestLRABoundsCloth(t *testing.T) {
	const ticks = 300

	p := DefaultParams()
	p.Iterations = 5
	p.LRASlack = 1.0

	p.UseLRA = true
	w := NewWorld(p)
	for i := 0; i < ticks; i++ {
		w.Step()
		if e := w.MaxLRAExcess(); e > eps {
			t.Fatalf("tick %d: LRA bound exceeded by %g", i, e)
		}
		// Every free particle against its own stored bound, not just the worst
		for _, c := range w.LRAConstraints() {
			d := vmath.V3FDist(w.Particles()[c.Particle].Pos, w.Particles()[c.Anchor].Pos)
			if d > c.MaxDist*p.LRASlack+eps {
				t.Fatalf("tick %d: particle %d at %f exceeds bound %f", i, c.Particle, d, c.MaxDist)
			}
		}
	}

	p.UseLRA = false
	w = NewWorld(p)
	worst := math.Inf(-1)
	for i := 0; i < ticks; i++ {
		w.Step()
		worst = math.Max(worst, w.MaxLRAExcess())
	}
	if worst <= eps {
		t.Errorf("Expected local constraints alone to over-stretch the cloth, worst excess %g", worst)
	}
}

// TestLRASlackPermitsStretch verifies a larger slack bounds at the scaled distance
func TestLRASlackPermitsStretch(t *testing.T) {
	p := DefaultParams()
	p.LRASlack = 1.2
	w := NewWorld(p)

	for i := 0; i < 120; i++ {
		w.Step()
	}
	if e := w.MaxLRAExcess(); e > eps {
		t.Errorf("Expected bound at slack 1.2 to hold, excess %g", e)
	}
}

func TestWorldMutators(t *testing.T) {
	w := NewWorld(DefaultParams())

	if !w.UseLRA() {
		t.Error("Expected LRA enabled by default")
	}
	if w.ToggleLRA() {
		t.Error("Expected toggle to disable LRA")
	}
	w.SetUseLRA(true)
	if !w.UseLRA() {
		t.Error("Expected SetUseLRA(true) to enable LRA")
	}

	if got := w.AdjustLRASlack(0.05); math.Abs(got-1.05) > eps {
		t.Errorf("Expected slack 1.05, got %f", got)
	}
	if got := w.AdjustLRASlack(-1); got != 1 {
		t.Errorf("Expected slack clamped to 1, got %f", got)
	}
	if got := w.SetLRASlack(0.3); got != 1 || w.LRASlack() != 1 {
		t.Errorf("Expected slack clamped to 1, got %f", got)
	}
	w.SetLRASlack(1.5)
	if got := w.SetLRASlack(math.NaN()); got != 1 || w.LRASlack() != 1 {
		t.Errorf("Expected NaN slack clamped to 1, got %f", got)
	}
	w.Step()
	for i, p := range w.Particles() {
		if math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y) || math.IsNaN(p.Pos.Z) {
			t.Fatalf("Expected finite positions after NaN slack, particle %d at %v", i, p.Pos)
		}
	}

	w.SetIterations(10)
	if w.Iterations() != 10 {
		t.Errorf("Expected 10 iterations, got %d", w.Iterations())
	}
	w.SetIterations(0)
	if w.Iterations() != 1 {
		t.Errorf("Expected iterations clamped to 1, got %d", w.Iterations())
	}
}

// TestSetGridAppliesOnRebuild verifies topology parameters wait for BuildScene
func TestSetGridAppliesOnRebuild(t *testing.T) {
	w := NewWorld(DefaultParams())
	w.Step()

	w.SetGrid(4, 5, 0.2)
	if len(w.Particles()) != 900 {
		t.Fatalf("Expected grid unchanged before rebuild, got %d particles", len(w.Particles()))
	}

	w.BuildScene()
	if len(w.Particles()) != 20 {
		t.Errorf("Expected 20 particles after rebuild, got %d", len(w.Particles()))
	}
	if w.Ticks() != 0 {
		t.Errorf("Expected tick counter reset, got %d", w.Ticks())
	}
	if got := w.Particles()[0].Pos; vmath.V3FDist(got, vmath.Vec3F{X: -0.3, Y: 0.8}) > eps {
		t.Errorf("Expected top-left at {-0.3 0.8 0}, got %v", got)
	}
}

// TestBuildSceneResets verifies reset restores the rest pose exactly
func TestBuildSceneResets(t *testing.T) {
	w := NewWorld(DefaultParams())
	rest := w.Snapshot()

	for i := 0; i < 40; i++ {
		w.Step()
	}
	w.BuildScene()

	for i, p := range w.Particles() {
		if p != rest.Particles[i] {
			t.Fatalf("particle %d: expected %+v after reset, got %+v", i, rest.Particles[i], p)
		}
	}
	if len(w.LocalConstraints()) != 1740 || len(w.LRAConstraints()) != 898 {
		t.Errorf("Expected constraint lists rebuilt once, got %d local and %d LRA",
			len(w.LocalConstraints()), len(w.LRAConstraints()))
	}
}

// TestFreeFallWithoutAnchors verifies the solver runs with an empty LRA list
func TestFreeFallWithoutAnchors(t *testing.T) {
	w := NewWorld(DefaultParams(), WithPinRule(PinNone))
	y0 := w.Particles()[0].Pos.Y

	for i := 0; i < 10; i++ {
		w.Step()
	}

	if w.Particles()[0].Pos.Y >= y0 {
		t.Errorf("Expected free fall below %f, got %f", y0, w.Particles()[0].Pos.Y)
	}
	if !math.IsInf(w.MaxLRAExcess(), -1) {
		t.Errorf("Expected -Inf excess without constraints, got %f", w.MaxLRAExcess())
	}
}

// fixedAnchor always attaches to the first anchor regardless of distance
type fixedAnchor struct{}

func (fixedAnchor) Select(ps ParticleBuffer, particle int, anchors []int) (int, float64, bool) {
	if len(anchors) == 0 {
		return 0, 0, false
	}
	return anchors[0], vmath.V3FDist(ps[particle].Pos, ps[anchors[0]].Pos), true
}

func TestWithAnchorSelector(t *testing.T) {
	w := NewWorld(DefaultParams(), WithAnchorSelector(fixedAnchor{}))
	for _, c := range w.LRAConstraints() {
		if c.Anchor != 0 {
			t.Fatalf("particle %d: expected custom selector anchor 0, got %d", c.Particle, c.Anchor)
		}
	}
}

func TestStatus(t *testing.T) {
	w := NewWorld(DefaultParams())
	if got, want := w.Status(), "LRA: ON | Slack: 1.00 | Iters: 5"; got != want {
		t.Errorf("Expected status %q, got %q", want, got)
	}
	w.ToggleLRA()
	w.SetLRASlack(1.25)
	w.SetIterations(2)
	if got, want := w.Status(), "LRA: OFF | Slack: 1.25 | Iters: 2"; got != want {
		t.Errorf("Expected status %q, got %q", want, got)
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"negative spacing", func(p *Params) { p.Spacing = -1 }},
		{"no iterations", func(p *Params) { p.Iterations = 0 }},
		{"slack below one", func(p *Params) { p.LRASlack = 0.9 }},
		{"zero dt", func(p *Params) { p.Dt = 0 }},
		{"damping above one", func(p *Params) { p.Damping = 1.5 }},
	}
	for _, tt := range tests {
		p := DefaultParams()
		tt.mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestMaxStretch(t *testing.T) {
	w := NewWorld(DefaultParams())
	if got := w.MaxStretch(); math.Abs(got-1) > eps {
		t.Errorf("Expected rest stretch 1, got %f", got)
	}
	for i := 0; i < 30; i++ {
		w.Step()
	}
	if got := w.MaxStretch(); got <= 1 {
		t.Errorf("Expected some stretch under gravity, got %f", got)
	}
}

// TestStepLocalSweepInPlace verifies Step projects local constraints sequentially in list order
func TestStepLocalSweepInPlace(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 1, 3
	p.UseLRA = false
	p.Iterations = 1
	w := NewWorld(p)

	// Predict moves both free particles equally, so only the top edge is stretched
	// A simultaneous sweep would leave the bottom edge untouched
	ref := w.Particles().Clone()
	Predict(ref, p.Gravity, p.Dt)
	for _, c := range w.LocalConstraints() {
		c.Project(ref)
	}
	DeriveVelocity(ref, p.Dt, p.Damping)

	w.Step()

	got := w.Particles()
	for i := range ref {
		if got[i].Pos != ref[i].Pos || got[i].Vel != ref[i].Vel {
			t.Errorf("Particle %d: expected %+v, got %+v", i, ref[i], got[i])
		}
	}
	// The bottom edge only stretches after the top correction moved the middle particle
	if d := vmath.V3FDist(got[1].Pos, got[2].Pos); math.Abs(d-p.Spacing) > 1e-9 {
		t.Errorf("Expected bottom edge at rest length %g after the sweep, got %g", p.Spacing, d)
	}
}
