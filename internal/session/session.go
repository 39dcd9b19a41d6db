// Package session owns a world/solver pair and serializes external
// input against the frame loop. Input handlers queue commands; the
// session applies them between frames, so nothing ever mutates the
// world concurrently with a solver update.
package session

import (
	"github.com/san-kum/verletbox/internal/verlet"
)

// Command is an input-originated mutation, deferred to a frame boundary.
type Command interface {
	apply(s *Session) error
}

// Spawn adds a particle at a world coordinate.
type Spawn struct {
	Pos    verlet.Vec2
	Radius float64
}

func (c Spawn) apply(s *Session) error {
	_, err := s.world.Add(c.Pos, c.Radius)
	return err
}

// AdjustSubsteps applies a signed delta to the solver's substep count;
// the solver clamps to a minimum of one.
type AdjustSubsteps struct {
	Delta int
}

func (c AdjustSubsteps) apply(s *Session) error {
	s.solver.AdjustSubsteps(c.Delta)
	return nil
}

// Body is the read-only render view of one particle after a frame.
type Body struct {
	Pos    verlet.Vec2
	Radius float64
	Speed  float64
}

// Session is not safe for concurrent use; one goroutine drives Queue
// and Step, and readers consume Bodies between Step calls.
type Session struct {
	world      *verlet.World
	solver     *verlet.Solver
	maxFrameDt float64
	queue      []Command
	bodies     []Body
	lastDt     float64
	dropped    int
}

// New wires a session around an exclusively owned world and solver.
// maxFrameDt bounds the per-frame time budget against wall-clock
// hitches; values <= 0 disable the clamp.
func New(world *verlet.World, solver *verlet.Solver, maxFrameDt float64) *Session {
	return &Session{
		world:      world,
		solver:     solver,
		maxFrameDt: maxFrameDt,
	}
}

func (s *Session) World() *verlet.World   { return s.world }
func (s *Session) Solver() *verlet.Solver { return s.solver }

// Queue defers a command to the start of the next frame.
func (s *Session) Queue(c Command) {
	s.queue = append(s.queue, c)
}

// Dropped counts commands rejected at the boundary (bad spawn radius or
// position) since the session started.
func (s *Session) Dropped() int { return s.dropped }

// Step runs one frame: drain the command queue, clamp the frame budget,
// advance the solver, then snapshot the render view.
func (s *Session) Step(frameDt float64) {
	for _, c := range s.queue {
		if err := c.apply(s); err != nil {
			s.dropped++
		}
	}
	s.queue = s.queue[:0]

	if s.maxFrameDt > 0 && frameDt > s.maxFrameDt {
		frameDt = s.maxFrameDt
	}
	s.lastDt = frameDt

	s.solver.Update(s.world, frameDt)
	s.snapshot()
}

// LastDt reports the clamped frame budget of the most recent Step.
func (s *Session) LastDt() float64 { return s.lastDt }

// Bodies returns the render snapshot taken after the last Step. The
// slice is reused across frames; callers must not retain it.
func (s *Session) Bodies() []Body { return s.bodies }

func (s *Session) snapshot() {
	ps := s.world.Particles()
	if cap(s.bodies) < len(ps) {
		s.bodies = make([]Body, 0, len(ps))
	}
	s.bodies = s.bodies[:0]

	dt := s.solver.SubstepDt(s.lastDt)
	for i := range ps {
		speed := 0.0
		if dt > 0 {
			speed = ps[i].Speed(dt)
		}
		s.bodies = append(s.bodies, Body{
			Pos:    ps[i].Pos,
			Radius: ps[i].Radius,
			Speed:  speed,
		})
	}
}
