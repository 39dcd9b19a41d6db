// Package metrics provides per-frame diagnostic collectors over a
// particle world. Collectors observe after each frame completes and
// never mutate simulation state.
package metrics

import (
	"github.com/san-kum/verletbox/internal/verlet"
)

type Collector interface {
	Name() string
	Observe(w *verlet.World, substepDt float64)
	Value() float64
	Reset()
}

// KineticEnergy accumulates the mean kinetic energy across observations,
// with unit particle mass and velocity derived from the position spread.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(w *verlet.World, substepDt float64) {
	if substepDt <= 0 {
		return
	}
	e := 0.0
	ps := w.Particles()
	for i := range ps {
		v := ps[i].Velocity(substepDt)
		e += 0.5 * v.LenSq()
	}
	k.total += e
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// MeanSpeed tracks the average implicit speed over all particles and
// observations.
type MeanSpeed struct {
	total   float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(w *verlet.World, substepDt float64) {
	if substepDt <= 0 || w.Count() == 0 {
		return
	}
	sum := 0.0
	ps := w.Particles()
	for i := range ps {
		sum += ps[i].Speed(substepDt)
	}
	m.total += sum / float64(len(ps))
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.total = 0
	m.samples = 0
}

// MaxOverlap records the worst residual pair penetration seen across all
// observations. Single-pass correction leaves some overlap in dense
// clusters; this makes that residue visible.
type MaxOverlap struct {
	max float64
}

func NewMaxOverlap() *MaxOverlap { return &MaxOverlap{} }

func (m *MaxOverlap) Name() string { return "max_overlap" }

func (m *MaxOverlap) Observe(w *verlet.World, _ float64) {
	ps := w.Particles()
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			minDist := ps[i].Radius + ps[j].Radius
			overlap := minDist - ps[i].Pos.Sub(ps[j].Pos).Len()
			if overlap > m.max {
				m.max = overlap
			}
		}
	}
}

func (m *MaxOverlap) Value() float64 { return m.max }

func (m *MaxOverlap) Reset() { m.max = 0 }
