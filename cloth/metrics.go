package cloth

import "math"

// MaxLRAExcess returns the largest distance by which any particle exceeds its
// attachment bound at the current slack, measured whether or not LRA is enabled
// Returns -Inf when there are no LRA constraints
func (w *World) MaxLRAExcess() float64 {
	worst := math.Inf(-1)
	for _, c := range w.topo.LRA {
		if e := c.Excess(w.topo.Particles, w.params.LRASlack); e > worst {
			worst = e
		}
	}
	return worst
}

// MaxStretch returns the largest edge length ratio (1.0 = rest length)
// Returns 1 when there are no local constraints
func (w *World) MaxStretch() float64 {
	worst := 1.0
	for _, c := range w.topo.Local {
		if s := c.Stretch(w.topo.Particles); s > worst {
			worst = s
		}
	}
	return worst
}
