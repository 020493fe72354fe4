package nbody

import "errors"

// Configuration errors, reported at construction and never mid-run.
var (
	// ErrBodyCount indicates a non-positive body count.
	ErrBodyCount = errors.New("nbody: body count must be at least 1")

	// ErrTimestep indicates a non-positive timestep.
	ErrTimestep = errors.New("nbody: timestep must be positive")

	// ErrStepCount indicates a negative step count.
	ErrStepCount = errors.New("nbody: step count must be non-negative")

	// ErrSoftening indicates a non-positive softening length.
	ErrSoftening = errors.New("nbody: softening length must be positive")

	// ErrNegativeConstant indicates a negative mass or gravitational
	// constant. Zero is allowed and degenerates to free streaming.
	ErrNegativeConstant = errors.New("nbody: mass and G must be non-negative")

	// ErrDimensionMismatch indicates initial positions or velocities
	// whose length does not match the configured body count.
	ErrDimensionMismatch = errors.New("nbody: initial state does not match body count")
)
