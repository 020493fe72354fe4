package nbody

import (
	"math"
	"runtime"
)

// Vec3 is a three-dimensional vector. Positions, velocities, and
// accelerations are all []Vec3 indexed by body.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) NormSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.NormSq())
}

// CloneFrame copies one snapshot of per-body vectors.
func CloneFrame(src []Vec3) []Vec3 {
	c := make([]Vec3, len(src))
	copy(c, src)
	return c
}

// Config holds the immutable parameters of a run. All bodies share one
// mass TotalMass/Bodies; the count never changes during a run.
type Config struct {
	Bodies    int
	TotalMass float64
	G         float64
	Softening float64
	Dt        float64
	Steps     int
	Workers   int // 0 means runtime.NumCPU()
}

func DefaultConfig() Config {
	return Config{
		Bodies:    100,
		TotalMass: 20.0,
		G:         1.0,
		Softening: 0.1,
		Dt:        0.01,
		Steps:     1000,
	}
}

// ParticleMass is the per-body mass, TotalMass evenly split across bodies.
func (c Config) ParticleMass() float64 {
	return c.TotalMass / float64(c.Bodies)
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Validate rejects configurations before any step executes.
func (c Config) Validate() error {
	if c.Bodies < 1 {
		return ErrBodyCount
	}
	if c.Dt <= 0 {
		return ErrTimestep
	}
	if c.Steps < 0 {
		return ErrStepCount
	}
	if c.Softening <= 0 {
		return ErrSoftening
	}
	if c.TotalMass < 0 || c.G < 0 {
		return ErrNegativeConstant
	}
	return nil
}

// Diagnostics are the per-step energy bookkeeping values. Total should
// oscillate boundedly rather than drift: the leapfrog scheme conserves a
// shadow Hamiltonian close to the true energy.
type Diagnostics struct {
	Kinetic   float64
	Potential float64
	Total     float64
	Virial    float64
}

// Result accumulates the full run history. Trajectory holds the initial
// snapshot plus one per step (steps+1 entries); the four series hold one
// entry per completed step, so series index k aligns with Trajectory[k+1].
// Memory grows as O(steps * bodies); use Simulator.RunWithCallback to
// stream instead of retaining history.
type Result struct {
	Trajectory [][]Vec3
	Kinetic    []float64
	Potential  []float64
	Total      []float64
	Virial     []float64

	// Baselines from the priming evaluation of the initial state. These
	// are reference values for delta-energy reporting and are not part
	// of the series above.
	InitialKinetic   float64
	InitialPotential float64

	StepsTaken int
	Metrics    map[string]float64
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(step int, pos, vel []Vec3, d Diagnostics)
}

// Metric is an Observer that reduces the run to a single named value,
// folded into Result.Metrics when the run completes.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}
