package maze

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
)

func TestBlockCellsLayout(t *testing.T) {
	// 2x2 cells: (0,0)-(0,1) joined east, (0,0)-(1,0) and (0,1)-(1,1) joined south.
	east := map[[2]int]bool{{0, 0}: true}
	south := map[[2]int]bool{{0, 0}: true, {0, 1}: true}
	cells := blockCells(2,
		func(r, c int) bool { return east[[2]int{r, c}] },
		func(r, c int) bool { return south[[2]int{r, c}] },
	)

	want := [][]Cell{
		{Wall, Wall, Wall, Wall, Wall},
		{Wall, Open, Open, Open, Wall},
		{Wall, Open, Wall, Open, Wall},
		{Wall, Open, Wall, Open, Wall},
		{Wall, Wall, Wall, Wall, Wall},
	}
	for z := range want {
		for x := range want[z] {
			if cells[z][x] != want[z][x] {
				t.Fatalf("cell (%d,%d) = %v, want %v", x, z, cells[z][x], want[z][x])
			}
		}
	}

	start, end := corners(5)
	if _, err := NewGrid(cells, start, end); err != nil {
		t.Fatalf("converted maze rejected: %v", err)
	}
}

func TestBlockCellsIgnoresBorderWalls(t *testing.T) {
	all := func(int, int) bool { return true }
	cells := blockCells(3, all, all)
	n := len(cells)
	for i := 0; i < n; i++ {
		for _, p := range [][2]int{{i, 0}, {i, n - 1}, {0, i}, {n - 1, i}} {
			if cells[p[1]][p[0]] != Wall {
				t.Fatalf("border cell %v opened", p)
			}
		}
	}
}

func TestWilsonMazesAreConnected(t *testing.T) {
	for i := 0; i < 20; i++ {
		for _, braid := range []float64{0, 0.5} {
			g, err := NewWilson(17, braid, rand.New(rand.NewSource(int64(i)))).Generate(context.Background())
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if g.Size() != 17 {
				t.Fatalf("size = %d, want 17", g.Size())
			}
			reach := g.Reachable(g.Start())
			if !reach[g.End()] || len(reach) != g.OpenCells() {
				t.Fatalf("%d of %d open cells reachable", len(reach), g.OpenCells())
			}
		}
	}
}

func TestWilsonPerfectMazeIsATree(t *testing.T) {
	g, err := NewWilson(11, 0, rand.New(rand.NewSource(1))).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// 25 cells joined by 24 passages.
	if g.OpenCells() != 25+24 {
		t.Fatalf("open cells = %d, want 49", g.OpenCells())
	}
}

func TestWilsonRejectsBadSizes(t *testing.T) {
	for _, size := range []int{3, MaxWilsonGridSize + 2} {
		_, err := NewWilson(size, 0, rand.New(rand.NewSource(1))).Generate(context.Background())
		var genErr *GenerationError
		if !errors.As(err, &genErr) || !errors.Is(err, ErrBadSize) {
			t.Fatalf("size %d: expected GenerationError wrapping ErrBadSize, got %v", size, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWilson(11, 0, nil).Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewGenerator(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if g, err := NewGenerator(AlgorithmWilson, geometry.DefaultGridSize, 0.1, rng); err != nil {
		t.Fatalf("wilson: %v", err)
	} else if _, ok := g.(*Wilson); !ok {
		t.Fatalf("expected *Wilson, got %T", g)
	}
	if g, err := NewGenerator(AlgorithmBacktracker, 51, 0.1, rng); err != nil {
		t.Fatalf("backtracker: %v", err)
	} else if _, ok := g.(*Backtracker); !ok {
		t.Fatalf("expected *Backtracker, got %T", g)
	}
	if _, err := NewGenerator(AlgorithmWilson, 51, 0.1, rng); !errors.Is(err, ErrBadSize) {
		t.Fatalf("expected ErrBadSize for oversized wilson maze, got %v", err)
	}
	if _, err := NewGenerator("prim", 17, 0, rng); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}
