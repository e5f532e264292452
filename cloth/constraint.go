package cloth

import (
	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/vmath"
)

// LocalConstraint keeps two grid neighbours at their rest distance
type LocalConstraint struct {
	I, J    int
	RestLen float64
}

// Project applies one unit-stiffness PBD distance correction, split by inverse mass
// Skips coincident particles and pairs whose combined inverse mass is ~0
func (c LocalConstraint) Project(ps ParticleBuffer) {
	p1 := &ps[c.I]
	p2 := &ps[c.J]

	dir := vmath.V3FSub(p1.Pos, p2.Pos)
	dist := vmath.V3FMag(dir)
	if dist < parameter.ClothEpsilon {
		return
	}

	wSum := p1.InvMass + p2.InvMass
	if wSum < parameter.ClothEpsilon {
		return
	}

	correction := dist - c.RestLen
	dp := vmath.V3FScale(dir, -correction/dist)

	if !p1.Pinned {
		p1.Pos = vmath.V3FAddScaled(p1.Pos, dp, p1.InvMass/wSum)
	}
	if !p2.Pinned {
		p2.Pos = vmath.V3FAddScaled(p2.Pos, dp, -p2.InvMass/wSum)
	}
}

// LRAConstraint bounds a free particle's distance to its pinned anchor
// MaxDist is the rest-pose distance between the two
type LRAConstraint struct {
	Particle int
	Anchor   int
	MaxDist  float64
}

// Project clamps the particle onto the sphere of radius MaxDist*slack around the anchor
// Unilateral: particles inside the sphere are left alone. The anchor never moves
func (c LRAConstraint) Project(ps ParticleBuffer, slack float64) {
	p := &ps[c.Particle]
	anchor := ps[c.Anchor].Pos

	dir := vmath.V3FSub(p.Pos, anchor)
	dist := vmath.V3FMag(dir)
	limit := c.MaxDist * slack

	if dist <= limit {
		return
	}
	if dist < parameter.ClothEpsilon {
		return
	}

	p.Pos = vmath.V3FAddScaled(anchor, dir, limit/dist)
}

// ProjectLocal runs one Gauss-Seidel sweep over cs in list order
// Each projection sees positions already moved by earlier constraints in the same sweep,
// so reordering cs changes the result
func ProjectLocal(ps ParticleBuffer, cs []LocalConstraint) {
	for _, c := range cs {
		c.Project(ps)
	}
}

// ProjectLRA clamps every attachment in list order
func ProjectLRA(ps ParticleBuffer, cs []LRAConstraint, slack float64) {
	for _, c := range cs {
		c.Project(ps, slack)
	}
}

// Excess returns how far the particle sits beyond its bound, negative when inside
func (c LRAConstraint) Excess(ps ParticleBuffer, slack float64) float64 {
	return vmath.V3FDist(ps[c.Particle].Pos, ps[c.Anchor].Pos) - c.MaxDist*slack
}

// Stretch returns current length over rest length
func (c LocalConstraint) Stretch(ps ParticleBuffer) float64 {
	if c.RestLen < parameter.ClothEpsilon {
		return 1
	}
	return vmath.V3FDist(ps[c.I].Pos, ps[c.J].Pos) / c.RestLen
}
