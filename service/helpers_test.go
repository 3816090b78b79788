package service

import (
	"testing"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

var scenarioRows = [][]int{
	{1, 1, 1, 1, 1},
	{1, 0, 0, 0, 1},
	{1, 0, 1, 0, 1},
	{1, 0, 0, 0, 1},
	{1, 1, 1, 1, 1},
}

// recordingRand returns pick for every Intn call and remembers the bound.
type recordingRand struct {
	pick  int
	bound int
	calls int
}

func (r *recordingRand) Intn(n int) int {
	r.calls++
	r.bound = n
	if r.pick >= n {
		return n - 1
	}
	return r.pick
}

func (r *recordingRand) Float64() float64 {
	return 0
}

func smallSettings() geometry.Settings {
	s := geometry.DefaultSettings()
	s.GridSize = 5
	s.CellSize = 2
	return s
}

func mustParse(t *testing.T, rows [][]int, start, end geometry.GridPoint) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(rows, start, end)
	if err != nil {
		t.Fatalf("parse grid: %v", err)
	}
	return g
}

func scenarioGrid(t *testing.T) *maze.Grid {
	return mustParse(t, scenarioRows, geometry.GridPoint{X: 1, Z: 1}, geometry.GridPoint{X: 3, Z: 3})
}
