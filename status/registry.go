package status

import (
	"math"
	"sync/atomic"
)

// Registry groups simulation gauges by value type
// The hub writes from its Run loop; HTTP handlers read through Snapshot
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates a registry with empty maps
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a flat map suitable for JSON
// Non-finite floats are reported as nil
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Collect(out, func(v *atomic.Bool) (any, bool) { return v.Load(), true })
	r.Ints.Collect(out, func(v *atomic.Int64) (any, bool) { return v.Load(), true })
	r.Floats.Collect(out, func(v *AtomicFloat) (any, bool) {
		f := v.Get()
		return f, !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	r.Strings.Collect(out, func(v *AtomicString) (any, bool) { return v.Load(), true })
	return out
}
