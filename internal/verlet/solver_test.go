package verlet

import (
	"math"
	"testing"
)

// setVelocity gives a resting particle an implicit velocity by offsetting
// PrevPos against the substep length the solver will actually use.
func setVelocity(p *Particle, v Vec2, substepDt float64) {
	p.PrevPos = p.Pos.Sub(v.Scale(substepDt))
}

func TestSolver_StationaryParticleStaysPut(t *testing.T) {
	w := NewWorld()
	w.Add(Vec2{3, 4}, 1)

	s := NewSolver(Vec2{}, 4, nil)
	for i := 0; i < 100; i++ {
		s.Update(w, 1.0/60)
	}

	p := w.At(0)
	if p.Pos != (Vec2{3, 4}) {
		t.Errorf("particle drifted to %v", p.Pos)
	}
	if p.Pos != p.PrevPos {
		t.Error("Pos == PrevPos should persist with no forces")
	}
}

func TestSolver_GravityConvergence(t *testing.T) {
	const (
		g        = 100.0
		duration = 1.0
	)
	exact := 0.5 * g * duration * duration

	prevErr := math.Inf(1)
	for _, n := range []int{1, 2, 4, 8, 16, 32, 64} {
		w := NewWorld()
		w.Add(Vec2{}, 1)

		s := NewSolver(Vec2{Y: g}, n, nil)
		s.Update(w, duration)

		err := math.Abs(w.At(0).Pos.Y - exact)
		if err >= prevErr {
			t.Errorf("substeps=%d: error %v did not shrink from %v", n, err, prevErr)
		}
		prevErr = err
	}

	if prevErr > exact/50 {
		t.Errorf("64 substeps still off by %v", prevErr)
	}
}

func TestSolver_OverlapDecreasesSymmetrically(t *testing.T) {
	const r = 10.0
	w := NewWorld()
	w.Add(Vec2{0, 0}, r)
	w.Add(Vec2{12, 0}, r)
	before := w.At(1).Pos.Sub(w.At(0).Pos).Len()

	s := NewSolver(Vec2{}, 1, nil)
	s.Update(w, 1.0/60)

	a, b := w.At(0), w.At(1)
	after := b.Pos.Sub(a.Pos).Len()
	if after <= before {
		t.Errorf("overlap did not decrease: %v -> %v", 2*r-before, 2*r-after)
	}

	dispA := a.Pos.Sub(Vec2{0, 0})
	dispB := b.Pos.Sub(Vec2{12, 0})
	if math.Abs(dispA.X+dispB.X) > 1e-9 || math.Abs(dispA.Y+dispB.Y) > 1e-9 {
		t.Errorf("corrections not equal and opposite: %v vs %v", dispA, dispB)
	}
	if math.Abs(dispA.Y) > 1e-9 {
		t.Errorf("correction left the collision axis: %v", dispA)
	}
}

func TestSolver_Containment(t *testing.T) {
	arena := CircleArena{Center: Vec2{0, 0}, Radius: 100}
	w := NewWorld()
	w.Add(Vec2{150, 0}, 5)

	s := NewSolver(Vec2{}, 1, arena)
	s.Update(w, 1.0/60)

	p := w.At(0)
	if p.Pos.Sub(arena.Center).Len()+p.Radius > arena.Radius+1e-9 {
		t.Errorf("particle escaped arena: %v", p.Pos)
	}
}

func TestSolver_BoxContainment(t *testing.T) {
	arena := BoxArena{Min: Vec2{0, 0}, Max: Vec2{100, 100}}
	w := NewWorld()
	w.Add(Vec2{130, -20}, 5)

	s := NewSolver(Vec2{}, 1, arena)
	s.Update(w, 1.0/60)

	p := w.At(0)
	if p.Pos.X+p.Radius > 100+1e-9 || p.Pos.Y-p.Radius < -1e-9 {
		t.Errorf("particle escaped box: %v", p.Pos)
	}
}

func TestSolver_SubstepInvariantFreeFlight(t *testing.T) {
	const frameDt = 0.1
	v := Vec2{30, -40}

	finals := make([]Vec2, 0, 4)
	for _, n := range []int{1, 2, 5, 10} {
		w := NewWorld()
		w.Add(Vec2{1, 2}, 1)

		s := NewSolver(Vec2{}, n, nil)
		setVelocity(w.At(0), v, s.SubstepDt(frameDt))
		s.Update(w, frameDt)
		finals = append(finals, w.At(0).Pos)
	}

	want := Vec2{1, 2}.Add(v.Scale(frameDt))
	for i, got := range finals {
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
			t.Errorf("case %d: final position %v, want %v", i, got, want)
		}
	}
}

func TestSolver_CoincidentCentersDeterministic(t *testing.T) {
	run := func() (Vec2, Vec2) {
		w := NewWorld()
		w.Add(Vec2{5, 5}, 4)
		w.Add(Vec2{5, 5}, 4)

		s := NewSolver(Vec2{}, 1, nil)
		s.Update(w, 1.0/60)
		return w.At(0).Pos, w.At(1).Pos
	}

	a1, b1 := run()
	a2, b2 := run()

	if !a1.IsValid() || !b1.IsValid() {
		t.Fatalf("NaN propagated from coincident centers: %v %v", a1, b1)
	}
	if a1 == b1 {
		t.Error("coincident particles did not separate")
	}
	if a1 != a2 || b1 != b2 {
		t.Errorf("tie-break not reproducible: (%v,%v) vs (%v,%v)", a1, b1, a2, b2)
	}
}

func TestSolver_SubstepClamp(t *testing.T) {
	s := NewSolver(Vec2{}, 0, nil)
	if s.Substeps() != 1 {
		t.Errorf("constructor did not clamp substeps: %d", s.Substeps())
	}

	s.SetSubsteps(-3)
	if s.Substeps() != 1 {
		t.Errorf("SetSubsteps did not clamp: %d", s.Substeps())
	}

	s.SetSubsteps(8)
	s.AdjustSubsteps(-20)
	if s.Substeps() != 1 {
		t.Errorf("AdjustSubsteps did not clamp: %d", s.Substeps())
	}

	s.AdjustSubsteps(3)
	if s.Substeps() != 4 {
		t.Errorf("AdjustSubsteps delta wrong: %d", s.Substeps())
	}
}

func TestSolver_EmptyAndDegenerateFrames(t *testing.T) {
	s := NewSolver(Vec2{Y: 100}, 2, nil)

	// Empty world: must not panic.
	s.Update(NewWorld(), 1.0/60)

	w := NewWorld()
	w.Add(Vec2{1, 1}, 1)
	s.Update(w, 0)
	s.Update(w, -1)
	if w.At(0).Pos != (Vec2{1, 1}) {
		t.Errorf("non-positive frame dt should be a no-op, got %v", w.At(0).Pos)
	}
}

func TestSolver_AccelerationResetEachSubstep(t *testing.T) {
	w := NewWorld()
	w.Add(Vec2{}, 1)

	s := NewSolver(Vec2{Y: 50}, 3, nil)
	s.Update(w, 0.01)

	if w.At(0).Acc != (Vec2{}) {
		t.Errorf("acceleration not reset after update: %v", w.At(0).Acc)
	}
}
