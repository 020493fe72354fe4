// Package sampler builds initial conditions for the physics core: random
// cluster realizations and analytic orbit configurations. The core places
// no constraint on these beyond finiteness.
package sampler

import (
	"math/rand"

	"github.com/san-kum/gravlab/internal/nbody"
)

// Provider supplies an initial state before a run starts.
type Provider interface {
	Sample() (pos, vel []nbody.Vec3)
}

// Cluster draws positions uniformly from a ball and velocities from an
// isotropic Gaussian, then shifts into the center-of-mass frame so the
// cluster as a whole does not drift. Sampling is deterministic per seed.
type Cluster struct {
	N        int
	Radius   float64
	VelScale float64
	rng      *rand.Rand
}

func NewCluster(n int, radius, velScale float64, seed int64) *Cluster {
	return &Cluster{
		N:        n,
		Radius:   radius,
		VelScale: velScale,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (c *Cluster) Sample() ([]nbody.Vec3, []nbody.Vec3) {
	pos := make([]nbody.Vec3, c.N)
	vel := make([]nbody.Vec3, c.N)

	for i := 0; i < c.N; i++ {
		pos[i] = c.sampleBall()
		vel[i] = nbody.Vec3{
			X: c.rng.NormFloat64() * c.VelScale,
			Y: c.rng.NormFloat64() * c.VelScale,
			Z: c.rng.NormFloat64() * c.VelScale,
		}
	}

	ToCenterOfMassFrame(vel)
	return pos, vel
}

// sampleBall rejection-samples a point uniformly inside the radius.
func (c *Cluster) sampleBall() nbody.Vec3 {
	for {
		v := nbody.Vec3{
			X: (2*c.rng.Float64() - 1) * c.Radius,
			Y: (2*c.rng.Float64() - 1) * c.Radius,
			Z: (2*c.rng.Float64() - 1) * c.Radius,
		}
		if v.NormSq() <= c.Radius*c.Radius {
			return v
		}
	}
}

// ToCenterOfMassFrame removes the mean velocity in place. With equal
// masses the mass-weighted mean is the plain mean.
func ToCenterOfMassFrame(vel []nbody.Vec3) {
	if len(vel) == 0 {
		return
	}

	var mean nbody.Vec3
	for _, v := range vel {
		mean = mean.Add(v)
	}
	mean = mean.Scale(1 / float64(len(vel)))

	for i := range vel {
		vel[i] = vel[i].Sub(mean)
	}
}
