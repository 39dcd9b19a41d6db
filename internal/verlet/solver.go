package verlet

import (
	"math"
	"runtime"
)

// Below this many particles the per-particle phases run inline; chunked
// goroutines only pay off on larger worlds.
const minParallelChunk = 512

// Solver advances a World by whole frames, split into substeps.
//
// Each substep applies gravity, resolves pairwise overlaps with a single
// positional-correction pass, resolves arena containment, then performs
// the Verlet position update. A single pass per substep means dense
// clusters keep residual overlap that drains away over later substeps;
// that trade is intentional.
type Solver struct {
	gravity  Vec2
	substeps int
	arena    Arena
	workers  int
	cellSize float64
}

func NewSolver(gravity Vec2, substeps int, arena Arena) *Solver {
	if substeps < 1 {
		substeps = 1
	}
	return &Solver{
		gravity:  gravity,
		substeps: substeps,
		arena:    arena,
		workers:  runtime.NumCPU(),
	}
}

func (s *Solver) Substeps() int { return s.substeps }

func (s *Solver) Arena() Arena { return s.arena }

func (s *Solver) Gravity() Vec2 { return s.gravity }

func (s *Solver) SetGravity(g Vec2) { s.gravity = g }

// SetSubsteps clamps to a minimum of one so the substep dt stays defined.
func (s *Solver) SetSubsteps(n int) {
	if n < 1 {
		n = 1
	}
	s.substeps = n
}

// AdjustSubsteps applies a signed delta, typically from a scroll input.
func (s *Solver) AdjustSubsteps(delta int) {
	s.SetSubsteps(s.substeps + delta)
}

// SetWorkers bounds the goroutines used by the per-particle phases.
func (s *Solver) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.workers = n
}

// UseGrid switches the collision broad phase to a spatial hash with the
// given cell size. Exhaustive pair checking remains the reference
// behavior; the hash is an opt-in for large worlds and silently falls
// back to exhaustive whenever a particle diameter outgrows the cell.
func (s *Solver) UseGrid(cellSize float64) error {
	if math.IsNaN(cellSize) || cellSize <= 0 {
		return ErrCellSize
	}
	s.cellSize = cellSize
	return nil
}

// DisableGrid restores exhaustive pair checking.
func (s *Solver) DisableGrid() { s.cellSize = 0 }

// SubstepDt is the effective integration step for a given frame budget;
// render-side velocity derivation divides by this.
func (s *Solver) SubstepDt(frameDt float64) float64 {
	return frameDt / float64(s.substeps)
}

// Update advances the world by one frame of frameDt seconds. All solver
// operations are total over finite input; NaN/Inf positions injected from
// outside are not guarded beyond the coincident-center tie-break.
func (s *Solver) Update(w *World, frameDt float64) {
	ps := w.Particles()
	if len(ps) == 0 || frameDt <= 0 {
		return
	}

	dt := frameDt / float64(s.substeps)
	useGrid := s.cellSize > 0 && s.cellSize >= 2*w.MaxRadius()

	for step := 0; step < s.substeps; step++ {
		s.applyGravity(ps)
		if useGrid {
			resolveGridCollisions(ps, s.cellSize)
		} else {
			resolveAllCollisions(ps)
		}
		s.applyContainment(ps)
		s.integrate(ps, dt)
	}
}

func (s *Solver) applyGravity(ps []Particle) {
	parallelFor(len(ps), minParallelChunk, s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			ps[i].Accelerate(s.gravity)
		}
	})
}

func (s *Solver) applyContainment(ps []Particle) {
	if s.arena == nil {
		return
	}
	parallelFor(len(ps), minParallelChunk, s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			s.arena.Contain(&ps[i])
		}
	})
}

func (s *Solver) integrate(ps []Particle, dt float64) {
	parallelFor(len(ps), minParallelChunk, s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			ps[i].integrate(dt)
		}
	})
}

// resolveAllCollisions is the exhaustive O(n²) narrow phase: every
// unordered pair checked exactly once per substep, in insertion order.
// It runs sequentially; each pair mutates two particles and serializing
// those writes is the simplest correct baseline.
func resolveAllCollisions(ps []Particle) {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			resolvePair(&ps[i], &ps[j])
		}
	}
}

// resolvePair pushes two overlapping particles apart by overlap/2 each
// along the collision normal. PrevPos is untouched, so the correction
// bleeds into the next integration step instead of adding energy.
func resolvePair(a, b *Particle) {
	delta := a.Pos.Sub(b.Pos)
	minDist := a.Radius + b.Radius
	distSq := delta.LenSq()
	if distSq >= minDist*minDist {
		return
	}

	dist := math.Sqrt(distSq)
	var n Vec2
	if dist > 0 {
		n = delta.Scale(1 / dist)
	} else {
		// Coincident centers leave the normal undefined; a fixed axis
		// keeps the outcome deterministic instead of dividing by zero.
		n = Vec2{X: 1}
	}

	half := n.Scale(0.5 * (minDist - dist))
	a.Pos = a.Pos.Add(half)
	b.Pos = b.Pos.Sub(half)
}
