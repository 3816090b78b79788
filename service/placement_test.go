package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

func TestPlaceTargetSingleCandidate(t *testing.T) {
	s := smallSettings()
	g := mustParse(t, [][]int{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 0, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}, geometry.GridPoint{X: 1, Z: 1}, geometry.GridPoint{X: 3, Z: 1})

	for seed := int64(0); seed < 10; seed++ {
		target := PlaceTarget(g, s, rand.New(rand.NewSource(seed)))
		if target == nil {
			t.Fatalf("expected a target")
		}
		want := geometry.GridPoint{X: 2, Z: 1}
		if target.GridPos != want || target.Orientation != AlongX {
			t.Fatalf("got %v %s, want %v along_x", target.GridPos, target.Orientation, want)
		}
		if target.Destroyed {
			t.Fatalf("new target must not be destroyed")
		}
		if target.Position != s.GridToWorldCenter(want, s.WallHeight/2) {
			t.Fatalf("unexpected position %+v", target.Position)
		}
	}
}

func TestPlaceTargetNoCandidate(t *testing.T) {
	g := mustParse(t, [][]int{
		{1, 1, 1, 1, 1},
		{1, 0, 0, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1},
	}, geometry.GridPoint{X: 1, Z: 1}, geometry.GridPoint{X: 2, Z: 1})

	if target := PlaceTarget(g, smallSettings(), &recordingRand{}); target != nil {
		t.Fatalf("expected no target, got %+v", target)
	}
	if PlaceTarget(nil, smallSettings(), &recordingRand{}) != nil {
		t.Fatalf("expected no target without a grid")
	}
}

func TestPlaceTargetScenarioCandidates(t *testing.T) {
	s := smallSettings()
	g := scenarioGrid(t)

	want := map[geometry.GridPoint]Orientation{
		{X: 2, Z: 1}: AlongX,
		{X: 2, Z: 3}: AlongX,
		{X: 1, Z: 2}: AlongZ,
		{X: 3, Z: 2}: AlongZ,
	}

	seen := map[geometry.GridPoint]bool{}
	for pick := 0; pick < 4; pick++ {
		rng := &recordingRand{pick: pick}
		target := PlaceTarget(g, s, rng)
		if target == nil {
			t.Fatalf("expected a target")
		}
		if rng.bound != 4 {
			t.Fatalf("expected 4 candidates, got %d", rng.bound)
		}
		o, ok := want[target.GridPos]
		if !ok || o != target.Orientation {
			t.Fatalf("unexpected candidate %v %s", target.GridPos, target.Orientation)
		}
		seen[target.GridPos] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected every candidate to be selectable, saw %v", seen)
	}
}

func TestPlaceTargetOnGeneratedMazes(t *testing.T) {
	s := geometry.DefaultSettings()
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, err := maze.NewBacktracker(s.GridSize, 0.2, rng).Generate(context.Background())
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		target := PlaceTarget(g, s, rng)
		if target == nil {
			continue
		}
		c := target.GridPos
		if c == g.Start() || c == g.End() || !g.IsOpen(c) {
			t.Fatalf("seed %d: target on invalid cell %v", seed, c)
		}
		if c.X == 0 || c.Z == 0 || c.X == g.Size()-1 || c.Z == g.Size()-1 {
			t.Fatalf("seed %d: target on border %v", seed, c)
		}
		n := g.IsOpen(geometry.GridPoint{X: c.X, Z: c.Z - 1})
		so := g.IsOpen(geometry.GridPoint{X: c.X, Z: c.Z + 1})
		e := g.IsOpen(geometry.GridPoint{X: c.X + 1, Z: c.Z})
		w := g.IsOpen(geometry.GridPoint{X: c.X - 1, Z: c.Z})
		switch target.Orientation {
		case AlongZ:
			if !n || !so || e || w {
				t.Fatalf("seed %d: %v is not a north/south corridor", seed, c)
			}
		case AlongX:
			if !e || !w || n || so {
				t.Fatalf("seed %d: %v is not an east/west corridor", seed, c)
			}
		default:
			t.Fatalf("seed %d: bad orientation %d", seed, target.Orientation)
		}
	}
}
