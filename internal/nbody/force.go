package nbody

import "math"

// Evaluator computes softened pairwise gravitational accelerations and the
// total potential energy by direct summation. All bodies share one mass.
//
// The acceleration kernel softens the squared separation (r² + ε²)^(3/2)
// while the potential softens the linear separation (r + ε). The asymmetry
// is intentional and load-bearing: the energy and virial diagnostics are
// defined against exactly this pair of kernels.
type Evaluator struct {
	mass      float64
	g         float64
	softening float64
	workers   int
}

func NewEvaluator(mass, g, softening float64, workers int) (*Evaluator, error) {
	if mass < 0 || g < 0 {
		return nil, ErrNegativeConstant
	}
	if softening <= 0 {
		return nil, ErrSoftening
	}
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{mass: mass, g: g, softening: softening, workers: workers}, nil
}

// Evaluate fills acc with the acceleration on every body and returns the
// total potential energy. It is a pure function of pos: no state is kept
// between calls, and NaN/Inf inputs propagate into the outputs untouched.
//
// Self-interaction is excluded by an exact d² == 0 test, so exactly
// coincident bodies exert no force on each other; their pair still
// contributes -G·m²/ε to the potential.
//
// The outer body loop fans out across the configured worker count. Partial
// potential sums combine in chunk order, so a fixed worker count yields
// bit-identical results across runs.
func (e *Evaluator) Evaluate(pos []Vec3, acc []Vec3) float64 {
	n := len(pos)
	eps := e.softening
	eps2 := eps * eps
	gm := e.g * e.mass
	gm2 := gm * e.mass

	return parallelReduce(n, e.workers, func(start, end int) float64 {
		pe := 0.0
		for i := start; i < end; i++ {
			pi := pos[i]
			var ax, ay, az float64

			for j := 0; j < n; j++ {
				d := pos[j].Sub(pi)
				d2 := d.NormSq()

				if j > i {
					pe -= gm2 / (math.Sqrt(d2) + eps)
				}

				if d2 == 0 {
					continue
				}

				r2 := d2 + eps2
				w := gm / (r2 * math.Sqrt(r2))
				ax += w * d.X
				ay += w * d.Y
				az += w * d.Z
			}

			acc[i] = Vec3{ax, ay, az}
		}
		return pe
	})
}
