package nbody_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravlab/internal/nbody"
	"github.com/san-kum/gravlab/internal/sampler"
)

var _ = Describe("leapfrog conservation", func() {
	It("keeps total energy bounded over a long bound-cluster run", func() {
		cfg := nbody.Config{
			Bodies:    10,
			TotalMass: 10.0,
			G:         1.0,
			Softening: 0.1,
			Dt:        0.001,
			Steps:     1000,
			Workers:   1,
		}

		sim, err := nbody.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		pos, vel := sampler.NewCluster(cfg.Bodies, 1.0, 0.01, 7).Sample()
		result, err := sim.Run(context.Background(), pos, vel)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Total).To(HaveLen(cfg.Steps))

		first := result.Total[0]
		last := result.Total[cfg.Steps-1]
		Expect(first).NotTo(BeZero())

		drift := math.Abs(last-first) / math.Abs(first)
		Expect(drift).To(BeNumerically("<", 1e-2),
			"symplectic integration should bound the energy drift, got %v", drift)
	})

	It("returns a circular binary to its starting point after one period", func() {
		const (
			g          = 1.0
			totalMass  = 2.0
			separation = 2.0
			softening  = 0.01
			dt         = 0.001
		)

		period := sampler.BinaryPeriod(g, totalMass, separation, softening)
		steps := int(period/dt + 0.5)

		cfg := nbody.Config{
			Bodies:    2,
			TotalMass: totalMass,
			G:         g,
			Softening: softening,
			Dt:        dt,
			Steps:     steps,
			Workers:   1,
		}

		sim, err := nbody.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		pos, vel := sampler.Binary(g, totalMass, separation, softening)
		result, err := sim.Run(context.Background(), pos, vel)
		Expect(err).NotTo(HaveOccurred())

		final := result.Trajectory[len(result.Trajectory)-1]
		for i := range pos {
			Expect(final[i].Sub(pos[i]).Norm()).To(BeNumerically("<", 5e-3),
				"body %d did not close its orbit", i)
		}
	})

	It("conserves linear momentum through pairwise-symmetric forces", func() {
		cfg := nbody.Config{
			Bodies:    10,
			TotalMass: 10.0,
			G:         1.0,
			Softening: 0.1,
			Dt:        0.005,
			Steps:     200,
			Workers:   1,
		}

		sim, err := nbody.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		var maxMean float64
		sim.AddObserver(observerFunc(func(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics) {
			var sum nbody.Vec3
			for _, v := range vel {
				sum = sum.Add(v)
			}
			maxMean = math.Max(maxMean, sum.Scale(1/float64(len(vel))).Norm())
		}))

		pos, vel := sampler.NewCluster(cfg.Bodies, 1.0, 0.1, 11).Sample()
		_, err = sim.Run(context.Background(), pos, vel)
		Expect(err).NotTo(HaveOccurred())

		Expect(maxMean).To(BeNumerically("<", 1e-10))
	})

	It("oscillates rather than drifting monotonically", func() {
		cfg := nbody.Config{
			Bodies:    10,
			TotalMass: 10.0,
			G:         1.0,
			Softening: 0.1,
			Dt:        0.001,
			Steps:     1000,
			Workers:   1,
		}

		sim, err := nbody.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		pos, vel := sampler.NewCluster(cfg.Bodies, 1.0, 0.01, 13).Sample()
		result, err := sim.Run(context.Background(), pos, vel)
		Expect(err).NotTo(HaveOccurred())

		// A drifting integrator changes energy in one direction nearly
		// every step; the leapfrog's error should change sign often.
		signFlips := 0
		prev := 0.0
		for i := 1; i < len(result.Total); i++ {
			delta := result.Total[i] - result.Total[i-1]
			if delta*prev < 0 {
				signFlips++
			}
			if delta != 0 {
				prev = delta
			}
		}
		Expect(signFlips).To(BeNumerically(">", 10))
	})
})

type observerFunc func(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics)

func (f observerFunc) OnStep(step int, pos, vel []nbody.Vec3, d nbody.Diagnostics) {
	f(step, pos, vel, d)
}
