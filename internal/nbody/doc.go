// Package nbody is the physics core: direct O(N²) pairwise gravity with a
// softened kernel, and a fixed-step kick-drift-kick (leapfrog) integrator
// with per-step energy and virial-ratio bookkeeping.
//
//   - [Evaluator]: accelerations and total potential energy for a set of
//     positions; pure, stateless, internally data-parallel
//   - [Simulator]: drives the leapfrog loop for a fixed step count,
//     producing a [Result] or streaming through RunWithCallback
//   - [Ensemble]: independent seeded runs in parallel
//
// # Example
//
//	sim, _ := nbody.New(nbody.DefaultConfig())
//	result, _ := sim.Run(ctx, pos, vel)
//
// # Numerical contract
//
// The acceleration kernel softens the squared separation; the potential
// softens the linear separation. NaN/Inf are never trapped: a diverging
// configuration propagates into the trajectory and series as-is. Given
// identical inputs and worker count, runs are bit-identical.
package nbody
