package sampler

import (
	"math"

	"github.com/san-kum/gravlab/internal/nbody"
)

// Binary places two equal-mass bodies on a circular orbit around their
// common center of mass. The tangential speed is derived from the softened
// acceleration kernel rather than the Kepler value, so the resulting orbit
// is circular for the engine's actual force law.
func Binary(g, totalMass, separation, softening float64) (pos, vel []nbody.Vec3) {
	m := totalMass / 2
	r := separation / 2

	// a = G m d / (d² + ε²)^(3/2), circular when a = v²/r.
	d2 := separation*separation + softening*softening
	a := g * m * separation / (d2 * math.Sqrt(d2))
	v := math.Sqrt(a * r)

	pos = []nbody.Vec3{{X: -r}, {X: r}}
	vel = []nbody.Vec3{{Y: -v}, {Y: v}}
	return pos, vel
}

// BinaryPeriod is the analytic period of the Binary configuration.
func BinaryPeriod(g, totalMass, separation, softening float64) float64 {
	_, vel := Binary(g, totalMass, separation, softening)
	speed := vel[1].Norm()
	return 2 * math.Pi * (separation / 2) / speed
}

// Ring places n bodies evenly on a circle in the xy-plane with a common
// tangential speed.
func Ring(n int, radius, speed float64) (pos, vel []nbody.Vec3) {
	pos = make([]nbody.Vec3, n)
	vel = make([]nbody.Vec3, n)

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos[i] = nbody.Vec3{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
		vel[i] = nbody.Vec3{X: -speed * math.Sin(angle), Y: speed * math.Cos(angle)}
	}

	return pos, vel
}
