package cloth

import (
	"github.com/lixenwraith/lra-cloth/vmath"
)

// Particle is one cloth vertex
// Pinned particles carry InvMass 0 and are never moved by the solver
type Particle struct {
	Pos     vmath.Vec3F
	Prev    vmath.Vec3F // position before the last prediction, used to derive velocity
	Vel     vmath.Vec3F
	InvMass float64
	Pinned  bool
}

// ParticleBuffer is the flat particle store indexed by y*width + x
type ParticleBuffer []Particle

// Len returns the particle count
func (ps ParticleBuffer) Len() int {
	return len(ps)
}

// Pin makes particle i immovable
func (ps ParticleBuffer) Pin(i int) {
	ps[i].InvMass = 0
	ps[i].Pinned = true
	ps[i].Vel = vmath.Vec3F{}
}

// Free makes particle i movable with the given inverse mass
func (ps ParticleBuffer) Free(i int, invMass float64) {
	ps[i].InvMass = invMass
	ps[i].Pinned = false
}

// Clone returns a deep copy
func (ps ParticleBuffer) Clone() ParticleBuffer {
	out := make(ParticleBuffer, len(ps))
	copy(out, ps)
	return out
}
