package service

import (
	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// Orientation is the corridor axis an alien target sits across.
type Orientation uint8

const (
	AlongX Orientation = iota + 1
	AlongZ
)

func (o Orientation) String() string {
	switch o {
	case AlongX:
		return "along_x"
	case AlongZ:
		return "along_z"
	default:
		return "unknown"
	}
}

// AlienTarget is the destructible target of a session. It stays in memory
// after being destroyed; Destroyed gates collision and rendering.
type AlienTarget struct {
	Position    geometry.Vec3
	Orientation Orientation
	GridPos     geometry.GridPoint
	Destroyed   bool
}

type placementCandidate struct {
	cell        geometry.GridPoint
	orientation Orientation
}

// PlaceTarget picks a random straight one-wide corridor cell for the alien.
// A cell qualifying on both axes contributes two candidates. It returns nil
// when no interior cell qualifies.
func PlaceTarget(grid *maze.Grid, s geometry.Settings, rng maze.Rand) *AlienTarget {
	if grid == nil {
		return nil
	}

	var candidates []placementCandidate
	n := grid.Size()
	for z := 1; z < n-1; z++ {
		for x := 1; x < n-1; x++ {
			c := geometry.GridPoint{X: x, Z: z}
			if !grid.IsOpen(c) || c == grid.Start() || c == grid.End() {
				continue
			}

			north := grid.IsOpen(geometry.GridPoint{X: x, Z: z - 1})
			south := grid.IsOpen(geometry.GridPoint{X: x, Z: z + 1})
			east := grid.IsOpen(geometry.GridPoint{X: x + 1, Z: z})
			west := grid.IsOpen(geometry.GridPoint{X: x - 1, Z: z})

			if north && south && !east && !west {
				candidates = append(candidates, placementCandidate{cell: c, orientation: AlongZ})
			}
			if east && west && !north && !south {
				candidates = append(candidates, placementCandidate{cell: c, orientation: AlongX})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	pick := candidates[0]
	if len(candidates) > 1 {
		pick = candidates[rng.Intn(len(candidates))]
	}
	return &AlienTarget{
		Position:    s.GridToWorldCenter(pick.cell, s.WallHeight/2),
		Orientation: pick.orientation,
		GridPos:     pick.cell,
	}
}
