package maze

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	wilson "github.com/beka-birhanu/wilson-maze"
)

// ErrUnknownAlgorithm is returned by NewGenerator for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown maze algorithm")

// MaxWilsonGridSize is the largest side the Wilson generator supports.
const MaxWilsonGridSize = 2*20 + 1

// Wilson builds mazes with Wilson's algorithm from wilson-maze and lays the
// cells out on the odd indices of a block grid. The walk draws from the
// global math/rand source, so results are not reproducible; rng is only used
// for braiding.
type Wilson struct {
	size     int
	braiding float64
	rng      Rand
}

// NewWilson returns a generator for size×size grids. Even sizes are rounded
// down to the nearest odd value.
func NewWilson(size int, braiding float64, rng Rand) *Wilson {
	if size%2 == 0 {
		size--
	}
	return &Wilson{size: size, braiding: clampBraiding(braiding), rng: rng}
}

func (w *Wilson) Generate(ctx context.Context) (*Grid, error) {
	if w.size < geometry.MinGridSize || w.size > MaxWilsonGridSize {
		return nil, &GenerationError{Err: fmt.Errorf("%w: got %d, want at most %d", ErrBadSize, w.size, MaxWilsonGridSize)}
	}
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Err: err}
	}

	k := (w.size - 1) / 2
	m, err := wilson.New(k, k)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Err: err}
	}

	walls := m.RetriveGrid()
	cells := blockCells(k,
		func(r, c int) bool { return !walls[r][c].HasEastWall() },
		func(r, c int) bool { return !walls[r][c].HasSouthWall() },
	)
	braid(cells, w.braiding, w.rng)

	start, end := corners(w.size)
	g, err := NewGrid(cells, start, end)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	return g, nil
}

// blockCells converts a k×k wall-flag maze into a (2k+1)² block grid. Cell
// (r, c) becomes block (2c+1, 2r+1) and an open wall opens the block between
// two neighbours.
func blockCells(k int, eastOpen, southOpen func(r, c int) bool) [][]Cell {
	cells := solidCells(2*k + 1)
	for r := 0; r < k; r++ {
		for c := 0; c < k; c++ {
			x, z := 2*c+1, 2*r+1
			cells[z][x] = Open
			if c < k-1 && eastOpen(r, c) {
				cells[z][x+1] = Open
			}
			if r < k-1 && southOpen(r, c) {
				cells[z+1][x] = Open
			}
		}
	}
	return cells
}

// Generation algorithms selectable by name.
const (
	AlgorithmWilson      = "wilson"
	AlgorithmBacktracker = "backtracker"
)

// NewGenerator returns the generator for algorithm.
func NewGenerator(algorithm string, size int, braiding float64, rng Rand) (Generator, error) {
	switch algorithm {
	case AlgorithmWilson:
		if size > MaxWilsonGridSize {
			return nil, fmt.Errorf("%w: wilson supports at most %d, got %d", ErrBadSize, MaxWilsonGridSize, size)
		}
		return NewWilson(size, braiding, rng), nil
	case AlgorithmBacktracker:
		return NewBacktracker(size, braiding, rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}
