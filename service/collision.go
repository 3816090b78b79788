package service

import (
	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
)

// Resolver answers collision queries in grid space. A nil grid collides with
// nothing.
type Resolver struct {
	settings geometry.Settings
	grid     *maze.Grid
	target   *AlienTarget
}

// NewResolver returns a resolver over grid. target may be nil and is read on
// every query, so destroying it is observed immediately.
func NewResolver(s geometry.Settings, grid *maze.Grid, target *AlienTarget) *Resolver {
	return &Resolver{settings: s, grid: grid, target: target}
}

// CheckWallCollision reports whether pos lies outside the maze or inside a
// wall cell.
func (r *Resolver) CheckWallCollision(pos geometry.Vec3) bool {
	if r == nil || r.grid == nil {
		return false
	}
	c := r.settings.WorldToGrid(pos)
	if !r.settings.InBounds(c) || !r.grid.InBounds(c) {
		return true
	}
	return r.grid.At(c) == maze.Wall
}

// CheckPlayerCollision is CheckWallCollision plus the live alien target,
// which blocks its cell like a wall.
func (r *Resolver) CheckPlayerCollision(pos geometry.Vec3) bool {
	if r.CheckWallCollision(pos) {
		return true
	}
	if r == nil || r.target == nil || r.target.Destroyed {
		return false
	}
	return r.target.GridPos == r.settings.WorldToGrid(pos)
}
