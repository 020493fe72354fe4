package nbody

import (
	"context"
	"math"
)

// Simulator advances an ensemble with the kick-drift-kick (leapfrog)
// scheme at a fixed timestep: a second-order symplectic integrator, so
// total energy oscillates boundedly instead of drifting monotonically.
//
// Each step depends on the previous one through positions, velocities,
// and the carried acceleration; steps are strictly sequential. The only
// parallelism lives inside the force evaluation.
//
// Simulator instances are not safe for concurrent use. For parallel runs
// over many seeds, use Ensemble.
type Simulator struct {
	cfg       Config
	eval      *Evaluator
	metrics   []Metric
	observers []Observer
}

func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eval, err := NewEvaluator(cfg.ParticleMass(), cfg.G, cfg.Softening, cfg.workers())
	if err != nil {
		return nil, err
	}

	return &Simulator{cfg: cfg, eval: eval}, nil
}

func (s *Simulator) Config() Config { return s.cfg }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates the configured number of steps from the given initial
// state and retains the full history: steps+1 trajectory snapshots and
// four diagnostic series of length steps, where series index k describes
// trajectory entry k+1. The initial state is copied, never mutated.
//
// Cancelling the context returns the partial result together with
// ctx.Err(); otherwise the run completes all steps deterministically.
func (s *Simulator) Run(ctx context.Context, pos, vel []Vec3) (*Result, error) {
	if len(pos) != s.cfg.Bodies || len(vel) != s.cfg.Bodies {
		return nil, ErrDimensionMismatch
	}

	steps := s.cfg.Steps
	result := &Result{
		Trajectory: make([][]Vec3, 0, steps+1),
		Kinetic:    make([]float64, 0, steps),
		Potential:  make([]float64, 0, steps),
		Total:      make([]float64, 0, steps),
		Virial:     make([]float64, 0, steps),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := CloneFrame(pos)
	v := CloneFrame(vel)
	acc := make([]Vec3, s.cfg.Bodies)

	// Priming evaluation: the baselines below are reference values for
	// delta-energy reporting, not entries in the diagnostic series.
	result.InitialPotential = s.eval.Evaluate(x, acc)
	result.InitialKinetic = s.kinetic(v)
	result.Trajectory = append(result.Trajectory, CloneFrame(x))

	halfDt := 0.5 * s.cfg.Dt

	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			s.foldMetrics(result)
			return result, ctx.Err()
		default:
		}

		for i := range v {
			v[i] = v[i].Add(acc[i].Scale(halfDt))
		}
		for i := range x {
			x[i] = x[i].Add(v[i].Scale(s.cfg.Dt))
		}

		pe := s.eval.Evaluate(x, acc)

		for i := range v {
			v[i] = v[i].Add(acc[i].Scale(halfDt))
		}

		d := s.diagnose(v, pe)

		result.Trajectory = append(result.Trajectory, CloneFrame(x))
		result.Kinetic = append(result.Kinetic, d.Kinetic)
		result.Potential = append(result.Potential, d.Potential)
		result.Total = append(result.Total, d.Total)
		result.Virial = append(result.Virial, d.Virial)
		result.StepsTaken++

		for _, m := range s.metrics {
			m.OnStep(step, x, v, d)
		}
		for _, obs := range s.observers {
			obs.OnStep(step, x, v, d)
		}
	}

	s.foldMetrics(result)
	return result, nil
}

// RunWithCallback is the streaming variant of Run: it yields each step's
// state and diagnostics to fn and retains no history, so memory stays
// O(bodies) regardless of step count. The yielded slices are reused
// between steps; callers must copy anything they keep. Returning false
// from fn ends the run early without error.
func (s *Simulator) RunWithCallback(ctx context.Context, pos, vel []Vec3, fn func(step int, pos, vel []Vec3, d Diagnostics) bool) error {
	if len(pos) != s.cfg.Bodies || len(vel) != s.cfg.Bodies {
		return ErrDimensionMismatch
	}

	x := CloneFrame(pos)
	v := CloneFrame(vel)
	acc := make([]Vec3, s.cfg.Bodies)

	s.eval.Evaluate(x, acc)
	halfDt := 0.5 * s.cfg.Dt

	for step := 0; step < s.cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i := range v {
			v[i] = v[i].Add(acc[i].Scale(halfDt))
		}
		for i := range x {
			x[i] = x[i].Add(v[i].Scale(s.cfg.Dt))
		}

		pe := s.eval.Evaluate(x, acc)

		for i := range v {
			v[i] = v[i].Add(acc[i].Scale(halfDt))
		}

		if !fn(step, x, v, s.diagnose(v, pe)) {
			return nil
		}
	}

	return nil
}

func (s *Simulator) kinetic(v []Vec3) float64 {
	sum := 0.0
	for i := range v {
		sum += v[i].NormSq()
	}
	return 0.5 * s.cfg.ParticleMass() * sum
}

// diagnose computes the post-step energy bookkeeping. A potential of
// exactly zero (a single body has no pairs) defines the virial ratio as
// zero rather than erroring.
func (s *Simulator) diagnose(v []Vec3, pe float64) Diagnostics {
	ke := s.kinetic(v)
	d := Diagnostics{
		Kinetic:   ke,
		Potential: pe,
		Total:     ke + pe,
	}
	if pe != 0 {
		d.Virial = 2 * ke / math.Abs(pe)
	}
	return d
}

func (s *Simulator) foldMetrics(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
