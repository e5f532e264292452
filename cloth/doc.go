// Package cloth simulates a hanging cloth grid with Position-Based Dynamics
// and Long Range Attachments.
//
// Pipeline per step:
//   - Predict: explicit Euler under gravity for free particles
//   - Solve: Iterations sweeps of local edge projection, each followed by an
//     LRA sweep when enabled
//   - DeriveVelocity: velocity from positional displacement, then damped
//
// Projections mutate the particle buffer in place (Gauss–Seidel). Constraint
// list order is part of the result: reordering either list changes the
// numbers. A parallel solver would first need to partition constraints into
// index-disjoint groups.
//
// A World is not safe for concurrent use. Hosts step it from one goroutine and
// read its buffers only between steps.
package cloth
