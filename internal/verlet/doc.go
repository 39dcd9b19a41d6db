// Package verlet implements a 2D particle solver using position-based
// Verlet integration with substepping.
//
// The package defines the data model and the frame-advance loop:
//
//   - [Particle]: circular body with current and previous position
//   - [World]: insertion-ordered, append-only particle storage
//   - [Solver]: per-frame substep loop (gravity, collisions, containment, integration)
//   - [Arena]: containment boundary ([CircleArena], [BoxArena])
//
// Velocity is never stored. It is derived from the position spread,
// Pos - PrevPos, divided by the substep length, which lets constraint
// corrections move positions directly without desynchronizing a velocity
// field.
//
// # Thread Safety
//
// A World is exclusively owned by its Solver during [Solver.Update];
// readers must only touch it between frames. The solver parallelizes its
// independent per-particle phases internally, while the collision pass
// stays sequential so each pair's two-sided write is serialized.
package verlet
