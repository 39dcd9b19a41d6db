package verlet

import "math"

// World owns all particle data. Particles are appended when spawned and
// never removed; insertion order is irrelevant to the physics but fixes
// the iteration order of the collision pass.
type World struct {
	particles []Particle
}

func NewWorld() *World {
	return &World{particles: make([]Particle, 0, 256)}
}

// Add appends a particle at rest (PrevPos == Pos, zero acceleration) and
// returns its index. The radius must be positive and finite; validation
// happens here, at the boundary, so the solver never sees a bad body.
func (w *World) Add(pos Vec2, radius float64) (int, error) {
	if !pos.IsValid() {
		return -1, ErrPosition
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return -1, ErrRadius
	}
	w.particles = append(w.particles, Particle{
		Pos:     pos,
		PrevPos: pos,
		Radius:  radius,
	})
	return len(w.particles) - 1, nil
}

func (w *World) Count() int {
	return len(w.particles)
}

// At returns a mutable reference to the i-th particle.
func (w *World) At(i int) *Particle {
	return &w.particles[i]
}

// Particles exposes the backing slice for in-place update by the solver.
// Callers other than the solver must treat it as read-only.
func (w *World) Particles() []Particle {
	return w.particles
}

// MaxRadius returns the largest particle radius, or 0 for an empty world.
func (w *World) MaxRadius() float64 {
	max := 0.0
	for i := range w.particles {
		if w.particles[i].Radius > max {
			max = w.particles[i].Radius
		}
	}
	return max
}
