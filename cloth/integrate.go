package cloth

import (
	"github.com/lixenwraith/lra-cloth/vmath"
)

// Predict advances free particles by explicit Euler under gravity
// Stores the pre-step position in Prev for DeriveVelocity
func Predict(ps ParticleBuffer, gravity vmath.Vec3F, dt float64) {
	for i := range ps {
		p := &ps[i]
		if p.Pinned {
			continue
		}
		p.Vel = vmath.V3FAddScaled(p.Vel, gravity, dt)
		p.Prev = p.Pos
		p.Pos = vmath.V3FAddScaled(p.Pos, p.Vel, dt)
	}
}

// DeriveVelocity sets free particle velocity from displacement since Predict, then damps it
// Pinned particles keep their velocity
func DeriveVelocity(ps ParticleBuffer, dt, damping float64) {
	invDt := 1.0 / dt
	for i := range ps {
		p := &ps[i]
		if p.Pinned {
			continue
		}
		p.Vel = vmath.V3FScale(vmath.V3FSub(p.Pos, p.Prev), invDt*damping)
	}
}
