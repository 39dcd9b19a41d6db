package verlet

import "errors"

// Domain errors for world and solver configuration.
var (
	// ErrRadius indicates a non-positive or non-finite spawn radius.
	ErrRadius = errors.New("verlet: particle radius must be positive and finite")

	// ErrPosition indicates a spawn position containing NaN or Inf.
	ErrPosition = errors.New("verlet: spawn position must be finite")

	// ErrCellSize indicates a spatial hash cell smaller than a particle diameter.
	ErrCellSize = errors.New("verlet: grid cell size must cover the largest particle diameter")
)
