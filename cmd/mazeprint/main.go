// Command mazeprint generates a maze and prints it with its solution path.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

func main() {
	algorithm := flag.String("algorithm", maze.AlgorithmBacktracker, "wilson or backtracker")
	size := flag.Int("size", geometry.DefaultGridSize, "grid side length, odd")
	braid := flag.Float64("braid", 0.1, "share of dead ends opened into loops, 0..1")
	seed := flag.Int64("seed", 0, "random seed, 0 for the current time")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gen, err := maze.NewGenerator(*algorithm, *size, *braid, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	start := time.Now()
	g, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	path := g.Solve()

	fmt.Printf("seed %d, %dx%d, generated in %v\n", *seed, g.Size(), g.Size(), time.Since(start))
	fmt.Printf("open cells %d, solution %d steps\n", g.OpenCells(), len(path)-1)
	fmt.Print(draw(g, path))
}

func draw(g *maze.Grid, path []geometry.GridPoint) string {
	onPath := make(map[geometry.GridPoint]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	var b strings.Builder
	for z := 0; z < g.Size(); z++ {
		for x := 0; x < g.Size(); x++ {
			p := geometry.GridPoint{X: x, Z: z}
			switch {
			case p == g.Start():
				b.WriteString("S")
			case p == g.End():
				b.WriteString("E")
			case !g.IsOpen(p):
				b.WriteString("█")
			case onPath[p]:
				b.WriteString("•")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
