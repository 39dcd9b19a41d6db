package verlet

import "math"

// cellKey identifies a spatial hash bucket.
type cellKey struct {
	x, y int
}

// resolveGridCollisions is the opt-in broad phase: particles are binned
// into square cells at least one diameter wide, so every overlapping pair
// shares a cell or sits in adjacent cells. Each unordered pair is still
// resolved at most once (the j > i guard), matching the exhaustive pass
// for scenes where the cell-size precondition holds.
func resolveGridCollisions(ps []Particle, cellSize float64) {
	cells := make(map[cellKey][]int, len(ps))
	for i := range ps {
		k := keyFor(ps[i].Pos, cellSize)
		cells[k] = append(cells[k], i)
	}

	// Iterating particles in insertion order keeps the resolution
	// deterministic even though the map itself is unordered.
	for i := range ps {
		k := keyFor(ps[i].Pos, cellSize)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				neighbor := cellKey{k.x + dx, k.y + dy}
				for _, j := range cells[neighbor] {
					if j > i {
						resolvePair(&ps[i], &ps[j])
					}
				}
			}
		}
	}
}

func keyFor(p Vec2, cellSize float64) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / cellSize)),
		y: int(math.Floor(p.Y / cellSize)),
	}
}
