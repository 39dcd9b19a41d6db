package session

import (
	"testing"

	"github.com/san-kum/verletbox/internal/verlet"
)

func newTestSession(maxFrameDt float64) *Session {
	w := verlet.NewWorld()
	s := verlet.NewSolver(verlet.Vec2{Y: 1000}, 4, verlet.CircleArena{Radius: 250})
	return New(w, s, maxFrameDt)
}

func TestSession_SpawnAppliedAtFrameBoundary(t *testing.T) {
	s := newTestSession(0)

	s.Queue(Spawn{Pos: verlet.Vec2{10, 10}, Radius: 5})
	s.Queue(Spawn{Pos: verlet.Vec2{-10, 10}, Radius: 5})
	if s.World().Count() != 0 {
		t.Fatal("commands must not apply before Step")
	}

	s.Step(1.0 / 60)
	if s.World().Count() != 2 {
		t.Errorf("Count() = %d after step, want 2", s.World().Count())
	}
	if len(s.Bodies()) != 2 {
		t.Errorf("Bodies() length = %d, want 2", len(s.Bodies()))
	}
}

func TestSession_BadSpawnDropped(t *testing.T) {
	s := newTestSession(0)

	s.Queue(Spawn{Pos: verlet.Vec2{0, 0}, Radius: -1})
	s.Queue(Spawn{Pos: verlet.Vec2{0, 0}, Radius: 3})
	s.Step(1.0 / 60)

	if s.World().Count() != 1 {
		t.Errorf("Count() = %d, want 1 (bad spawn rejected)", s.World().Count())
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", s.Dropped())
	}
}

func TestSession_SubstepAdjustClamped(t *testing.T) {
	s := newTestSession(0)

	s.Queue(AdjustSubsteps{Delta: -100})
	s.Step(1.0 / 60)
	if got := s.Solver().Substeps(); got != 1 {
		t.Errorf("Substeps() = %d, want clamp to 1", got)
	}

	s.Queue(AdjustSubsteps{Delta: 7})
	s.Step(1.0 / 60)
	if got := s.Solver().Substeps(); got != 8 {
		t.Errorf("Substeps() = %d, want 8", got)
	}
}

func TestSession_FrameDtClamp(t *testing.T) {
	s := newTestSession(1.0 / 30)

	s.Queue(Spawn{Pos: verlet.Vec2{0, 0}, Radius: 5})
	s.Step(0.5) // frame hitch
	if s.LastDt() != 1.0/30 {
		t.Errorf("LastDt() = %v, want clamp to 1/30", s.LastDt())
	}

	s.Step(0.01)
	if s.LastDt() != 0.01 {
		t.Errorf("LastDt() = %v, want 0.01 untouched", s.LastDt())
	}
}

func TestSession_SnapshotSpeedDerived(t *testing.T) {
	s := newTestSession(0)
	s.Queue(Spawn{Pos: verlet.Vec2{0, 0}, Radius: 5})
	s.Step(1.0 / 60)

	// One frame under gravity: speed must be positive and finite.
	s.Step(1.0 / 60)
	b := s.Bodies()[0]
	if !(b.Speed > 0) {
		t.Errorf("Speed = %v, want > 0 after falling", b.Speed)
	}
}
