package cloth

// Snapshot is a detached copy of the mutable particle state
// Constraint lists are immutable between builds and are not captured
type Snapshot struct {
	Particles ParticleBuffer
	Ticks     uint64
}

// Snapshot captures the current particle state
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Particles: w.topo.Particles.Clone(),
		Ticks:     w.ticks,
	}
}

// Restore copies a snapshot back into the buffer
// The snapshot must come from the same topology; returns false on particle count mismatch
func (w *World) Restore(s Snapshot) bool {
	if len(s.Particles) != len(w.topo.Particles) {
		return false
	}
	copy(w.topo.Particles, s.Particles)
	w.ticks = s.Ticks
	return true
}
