package maze

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
)

// Rand is the random source used by generation and placement.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Generator produces a fresh maze on every call.
type Generator interface {
	Generate(ctx context.Context) (*Grid, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context) (*Grid, error)

func (f GeneratorFunc) Generate(ctx context.Context) (*Grid, error) {
	return f(ctx)
}

// GenerationError reports a failed maze synthesis.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("maze generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Backtracker carves a spanning tree over the odd cells of the grid, then
// optionally braids dead ends into loops.
type Backtracker struct {
	size     int
	braiding float64 // 0 keeps a perfect maze, 1 removes every dead end it safely can.
	rng      Rand
}

// NewBacktracker returns a generator for size×size grids. Even sizes are
// rounded down to the nearest odd value.
func NewBacktracker(size int, braiding float64, rng Rand) *Backtracker {
	if size%2 == 0 {
		size--
	}
	return &Backtracker{size: size, braiding: clampBraiding(braiding), rng: rng}
}

// Generate carves a new maze. Start is (1,1) and End is the opposite interior
// corner.
func (b *Backtracker) Generate(ctx context.Context) (*Grid, error) {
	if b.size < geometry.MinGridSize {
		return nil, &GenerationError{Err: fmt.Errorf("%w: got %d", ErrBadSize, b.size)}
	}

	cells := solidCells(b.size)
	start, end := corners(b.size)

	if err := b.carve(ctx, cells, start); err != nil {
		return nil, &GenerationError{Err: err}
	}
	braid(cells, b.braiding, b.rng)

	g, err := NewGrid(cells, start, end)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	return g, nil
}

// solidCells returns a size×size block of walls.
func solidCells(size int) [][]Cell {
	cells := make([][]Cell, size)
	for z := range cells {
		cells[z] = make([]Cell, size)
		for x := range cells[z] {
			cells[z][x] = Wall
		}
	}
	return cells
}

// corners returns the start and end cells shared by every generator.
func corners(size int) (start, end geometry.GridPoint) {
	return geometry.GridPoint{X: 1, Z: 1}, geometry.GridPoint{X: size - 2, Z: size - 2}
}

func clampBraiding(braiding float64) float64 {
	if braiding < 0 {
		return 0
	}
	if braiding > 1 {
		return 1
	}
	return braiding
}

func (b *Backtracker) carve(ctx context.Context, cells [][]Cell, start geometry.GridPoint) error {
	n := len(cells)
	jumps := []geometry.GridPoint{{X: 0, Z: -2}, {X: 0, Z: 2}, {X: -2, Z: 0}, {X: 2, Z: 0}}

	stack := []geometry.GridPoint{start}
	cells[start.Z][start.X] = Open

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		curr := stack[len(stack)-1]
		candidates := make([]geometry.GridPoint, 0, 4)
		for _, d := range jumps {
			nx, nz := curr.X+d.X, curr.Z+d.Z
			// Leave a one cell border of walls.
			if nx > 0 && nx < n-1 && nz > 0 && nz < n-1 && cells[nz][nx] == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[b.rng.Intn(len(candidates))]
		cells[curr.Z+d.Z/2][curr.X+d.X/2] = Open
		next := geometry.GridPoint{X: curr.X + d.X, Z: curr.Z + d.Z}
		cells[next.Z][next.X] = Open
		stack = append(stack, next)
	}
	return nil
}

// braid opens one wall next to some dead ends, creating cycles. Walls are only
// removed when that leaves no 2x2 open plaza and no isolated pillar.
func braid(cells [][]Cell, braiding float64, rng Rand) {
	if braiding <= 0 {
		return
	}
	n := len(cells)
	for z := 1; z < n-1; z += 2 {
		for x := 1; x < n-1; x += 2 {
			if cells[z][x] == Wall {
				continue
			}

			exits := 0
			for _, d := range orthogonal {
				if cells[z+d.Z][x+d.X] == Open {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= braiding {
				continue
			}

			candidates := make([]geometry.GridPoint, 0, 4)
			for _, d := range orthogonal {
				wx, wz := x+d.X, z+d.Z
				nx, nz := x+2*d.X, z+2*d.Z
				if nx <= 0 || nx >= n-1 || nz <= 0 || nz >= n-1 {
					continue
				}
				if cells[nz][nx] == Open && cells[wz][wx] == Wall && canRemoveWall(cells, wx, wz) {
					candidates = append(candidates, geometry.GridPoint{X: wx, Z: wz})
				}
			}
			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				cells[c.Z][c.X] = Open
			}
		}
	}
}

func canRemoveWall(cells [][]Cell, x, z int) bool {
	n := len(cells)
	open := func(tx, tz int) bool {
		return tx >= 0 && tx < n && tz >= 0 && tz < n && cells[tz][tx] == Open
	}

	// Plazas.
	if open(x-1, z-1) && open(x, z-1) && open(x-1, z) {
		return false
	}
	if open(x, z-1) && open(x+1, z-1) && open(x+1, z) {
		return false
	}
	if open(x-1, z) && open(x-1, z+1) && open(x, z+1) {
		return false
	}
	if open(x+1, z) && open(x, z+1) && open(x+1, z+1) {
		return false
	}

	// Pillars: every neighbouring wall must keep another wall neighbour.
	for _, d := range orthogonal {
		nx, nz := x+d.X, z+d.Z
		if nx < 0 || nx >= n || nz < 0 || nz >= n || cells[nz][nx] != Wall {
			continue
		}
		links := 0
		for _, d2 := range orthogonal {
			ax, az := nx+d2.X, nz+d2.Z
			if ax == x && az == z {
				continue
			}
			if ax >= 0 && ax < n && az >= 0 && az < n && cells[az][ax] == Wall {
				links++
			}
		}
		if links == 0 {
			return false
		}
	}
	return true
}
