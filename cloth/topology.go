package cloth

import (
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/vmath"
)

// PinRule reports whether grid cell (x, y) of a w×h cloth is pinned
// Row 0 is the top row
type PinRule func(x, y, w, h int) bool

// PinTopCorners pins the two corners of the top row
func PinTopCorners(x, y, w, h int) bool {
	return y == 0 && (x == 0 || x == w-1)
}

// PinTopRow pins every particle of the top row
func PinTopRow(x, y, w, h int) bool {
	return y == 0
}

// PinNone pins nothing, the cloth free-falls and receives no LRA constraints
func PinNone(x, y, w, h int) bool {
	return false
}

// PinRuleByName resolves a configuration name to a rule
func PinRuleByName(name string) (PinRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "corners":
		return PinTopCorners, nil
	case "top-row", "toprow", "row":
		return PinTopRow, nil
	case "none":
		return PinNone, nil
	}
	return nil, fmt.Errorf("unknown pin rule: %q", name)
}

// AnchorSelector picks the attachment for a free particle in the rest pose
// Returns ok=false when no anchor applies
type AnchorSelector interface {
	Select(ps ParticleBuffer, particle int, anchors []int) (anchor int, dist float64, ok bool)
}

// NearestAnchor selects the anchor with the smallest Euclidean rest distance
// Equal distances keep the first anchor found in iteration order
// Euclidean distance stands in for geodesic distance only because the rest pose is flat
type NearestAnchor struct{}

// Select returns the nearest anchor to particle and its distance, ok=false when anchors is empty
func (NearestAnchor) Select(ps ParticleBuffer, particle int, anchors []int) (int, float64, bool) {
	best := -1
	minDist := math.Inf(1)
	p := ps[particle].Pos
	for _, a := range anchors {
		d := vmath.V3FDist(p, ps[a].Pos)
		if d < minDist {
			minDist = d
			best = a
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, minDist, true
}

// Index returns the buffer index of grid cell (x, y)
func Index(x, y, width int) int {
	return y*width + x
}

// RestPosition returns the flat rest pose of cell (x, y), centered horizontally, top row highest
func RestPosition(x, y, width, height int, spacing float64) vmath.Vec3F {
	return vmath.Vec3F{
		X: (float64(x) - float64(width-1)*0.5) * spacing,
		Y: float64(height-1-y) * spacing,
		Z: 0,
	}
}

// Topology is the full output of a scene build
type Topology struct {
	Particles ParticleBuffer
	Local     []LocalConstraint
	LRA       []LRAConstraint
	Anchors   []int
}

// TopologyBuilder constructs grid particles and both constraint lists
type TopologyBuilder struct {
	Width, Height int
	Spacing       float64
	Pin           PinRule
	Selector      AnchorSelector
}

// Build fills topo from scratch, reusing its backing arrays
// Prior contents are discarded
func (b TopologyBuilder) Build(topo *Topology) {
	w, h := b.Width, b.Height
	pin := b.Pin
	if pin == nil {
		pin = PinTopCorners
	}
	sel := b.Selector
	if sel == nil {
		sel = NearestAnchor{}
	}

	n := w * h
	if cap(topo.Particles) >= n {
		topo.Particles = topo.Particles[:n]
	} else {
		topo.Particles = make(ParticleBuffer, n)
	}
	topo.Local = topo.Local[:0]
	topo.LRA = topo.LRA[:0]
	topo.Anchors = topo.Anchors[:0]

	ps := topo.Particles

	// Particles
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := Index(x, y, w)
			pos := RestPosition(x, y, w, h, b.Spacing)
			ps[id] = Particle{Pos: pos, Prev: pos}
			if pin(x, y, w, h) {
				ps.Pin(id)
				topo.Anchors = append(topo.Anchors, id)
			} else {
				ps.Free(id, parameter.ClothFreeInvMass)
			}
		}
	}

	// Structural edges, right then down per cell
	addEdge := func(a, c int) {
		topo.Local = append(topo.Local, LocalConstraint{
			I:       a,
			J:       c,
			RestLen: vmath.V3FDist(ps[a].Pos, ps[c].Pos),
		})
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				addEdge(Index(x, y, w), Index(x+1, y, w))
			}
			if y+1 < h {
				addEdge(Index(x, y, w), Index(x, y+1, w))
			}
		}
	}

	// Long range attachments
	for i := range ps {
		if ps[i].Pinned {
			continue
		}
		anchor, dist, ok := sel.Select(ps, i, topo.Anchors)
		if !ok {
			continue
		}
		topo.LRA = append(topo.LRA, LRAConstraint{
			Particle: i,
			Anchor:   anchor,
			MaxDist:  dist,
		})
	}
}
