// Package maze builds and inspects square block mazes of open and wall cells.
package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
)

// Cell is one block of the maze.
type Cell uint8

const (
	Open Cell = iota
	Wall
)

// Grid errors.
var (
	ErrNotSquare       = errors.New("grid is not square")
	ErrBadSize         = errors.New("grid side must be odd and at least 5")
	ErrEndpointBlocked = errors.New("start or end is not an open cell")
	ErrSameEndpoints   = errors.New("start and end must differ")
	ErrDisconnected    = errors.New("end is not reachable from start")
)

// Grid is an immutable maze with a guaranteed path from Start to End.
type Grid struct {
	cells      [][]Cell // indexed [z][x]
	start, end geometry.GridPoint
}

// NewGrid copies cells and validates the maze invariants.
func NewGrid(cells [][]Cell, start, end geometry.GridPoint) (*Grid, error) {
	n := len(cells)
	if n < geometry.MinGridSize || n%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSize, n)
	}

	g := &Grid{cells: make([][]Cell, n), start: start, end: end}
	for z, row := range cells {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotSquare, z, len(row), n)
		}
		g.cells[z] = append([]Cell(nil), row...)
	}

	if start == end {
		return nil, ErrSameEndpoints
	}
	if !g.IsOpen(start) || !g.IsOpen(end) {
		return nil, fmt.Errorf("%w: start %v end %v", ErrEndpointBlocked, start, end)
	}
	if g.Solve() == nil {
		return nil, ErrDisconnected
	}
	return g, nil
}

// Parse builds a grid from rows of 0 (open) and 1 (wall).
func Parse(rows [][]int, start, end geometry.GridPoint) (*Grid, error) {
	cells := make([][]Cell, len(rows))
	for z, row := range rows {
		cells[z] = make([]Cell, len(row))
		for x, v := range row {
			if v != 0 {
				cells[z][x] = Wall
			}
		}
	}
	return NewGrid(cells, start, end)
}

func (g *Grid) Size() int {
	return len(g.cells)
}

func (g *Grid) Start() geometry.GridPoint {
	return g.start
}

func (g *Grid) End() geometry.GridPoint {
	return g.end
}

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p geometry.GridPoint) bool {
	n := len(g.cells)
	return p.X >= 0 && p.X < n && p.Z >= 0 && p.Z < n
}

// At returns the cell at p. Cells outside the grid read as Wall.
func (g *Grid) At(p geometry.GridPoint) Cell {
	if !g.InBounds(p) {
		return Wall
	}
	return g.cells[p.Z][p.X]
}

func (g *Grid) IsOpen(p geometry.GridPoint) bool {
	return g.At(p) == Open
}

// Cells returns a copy of the grid rows, indexed [z][x].
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, len(g.cells))
	for z, row := range g.cells {
		out[z] = append([]Cell(nil), row...)
	}
	return out
}

// Equal reports whether both grids have identical cells and endpoints.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.start != o.start || g.end != o.end || len(g.cells) != len(o.cells) {
		return false
	}
	for z := range g.cells {
		for x := range g.cells[z] {
			if g.cells[z][x] != o.cells[z][x] {
				return false
			}
		}
	}
	return true
}

// String draws the grid with S and E marking the endpoints.
func (g *Grid) String() string {
	var b strings.Builder
	for z, row := range g.cells {
		for x, c := range row {
			p := geometry.GridPoint{X: x, Z: z}
			switch {
			case p == g.start:
				b.WriteByte('S')
			case p == g.end:
				b.WriteByte('E')
			case c == Wall:
				b.WriteByte('#')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
