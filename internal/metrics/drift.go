// Package metrics provides per-run conservation diagnostics implementing
// the nbody.Metric interface.
package metrics

import (
	"math"

	"github.com/san-kum/gravlab/internal/nbody"
)

// EnergyDrift tracks the maximum relative drift of total energy from the
// first observed step. Bounded oscillation is the expected signature of
// the symplectic integrator.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics) {
	if e.samples == 0 {
		e.initial = d.Total
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(d.Total-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the maximum magnitude of the mean velocity: with
// equal masses the total linear momentum is proportional to it, and
// pairwise-symmetric forces should keep it near its initial value.
type MomentumDrift struct {
	name string
	max  float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) OnStep(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics) {
	if len(vel) == 0 {
		return
	}

	var sum nbody.Vec3
	for _, v := range vel {
		sum = sum.Add(v)
	}

	m.max = math.Max(m.max, sum.Scale(1/float64(len(vel))).Norm())
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() { m.max = 0 }

// MeanVirial averages the virial ratio over the run; 1 indicates
// dynamical equilibrium.
type MeanVirial struct {
	name    string
	sum     float64
	samples int
}

func NewMeanVirial() *MeanVirial {
	return &MeanVirial{name: "mean_virial"}
}

func (v *MeanVirial) Name() string { return v.name }

func (v *MeanVirial) OnStep(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics) {
	v.sum += d.Virial
	v.samples++
}

func (v *MeanVirial) Value() float64 {
	if v.samples == 0 {
		return 0
	}
	return v.sum / float64(v.samples)
}

func (v *MeanVirial) Reset() {
	v.sum = 0
	v.samples = 0
}
