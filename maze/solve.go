package maze

import "github.com/beka-birhanu/vinom-maze3d/geometry"

var orthogonal = []geometry.GridPoint{{X: 0, Z: -1}, {X: 0, Z: 1}, {X: -1, Z: 0}, {X: 1, Z: 0}}

// Solve returns the shortest open path from Start to End, both included, or
// nil if there is none.
func (g *Grid) Solve() []geometry.GridPoint {
	if !g.IsOpen(g.start) || !g.IsOpen(g.end) {
		return nil
	}

	queue := []geometry.GridPoint{g.start}
	cameFrom := map[geometry.GridPoint]geometry.GridPoint{}
	visited := map[geometry.GridPoint]bool{g.start: true}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == g.end {
			path := []geometry.GridPoint{}
			for curr != g.start {
				path = append(path, curr)
				curr = cameFrom[curr]
			}
			path = append(path, g.start)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range orthogonal {
			next := geometry.GridPoint{X: curr.X + d.X, Z: curr.Z + d.Z}
			if g.IsOpen(next) && !visited[next] {
				visited[next] = true
				cameFrom[next] = curr
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// Reachable returns every open cell connected to from.
func (g *Grid) Reachable(from geometry.GridPoint) map[geometry.GridPoint]bool {
	seen := map[geometry.GridPoint]bool{}
	if !g.IsOpen(from) {
		return seen
	}
	stack := []geometry.GridPoint{from}
	seen[from] = true
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range orthogonal {
			next := geometry.GridPoint{X: curr.X + d.X, Z: curr.Z + d.Z}
			if g.IsOpen(next) && !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return seen
}

// OpenCells counts the open cells of the grid.
func (g *Grid) OpenCells() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == Open {
				n++
			}
		}
	}
	return n
}
