// Package geometry holds the single mapping between continuous world
// coordinates and discrete maze cells. Generation, collision and placement all
// go through it so the cell size is never duplicated.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Geometry errors.
var (
	ErrEvenGridSize    = errors.New("grid size must be odd")
	ErrGridTooSmall    = errors.New("grid size is too small")
	ErrNonPositiveSize = errors.New("cell size and wall height must be positive")
	ErrInvalidLaser    = errors.New("laser speed and lifetime must be positive")
)

// MinGridSize is the smallest grid that still has an interior corridor.
const MinGridSize = 5

// Default settings.
const (
	DefaultGridSize      = 17
	DefaultCellSize      = 4.0
	DefaultWallHeight    = 3.0
	DefaultPlayerHeight  = 1.6
	DefaultLaserSpeed    = 30.0
	DefaultLaserLifetime = 2 * time.Second
)

// GridPoint identifies a maze cell.
type GridPoint struct {
	X, Z int
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Z)
}

// Settings are the world constants shared by every component of a session.
type Settings struct {
	GridSize      int           // Side length of the maze grid, odd.
	CellSize      float64       // World units per cell.
	WallHeight    float64       // Height of wall boxes.
	PlayerHeight  float64       // Eye height of the player.
	LaserSpeed    float64       // World units per second.
	LaserLifetime time.Duration // Time before a laser expires.
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		GridSize:      DefaultGridSize,
		CellSize:      DefaultCellSize,
		WallHeight:    DefaultWallHeight,
		PlayerHeight:  DefaultPlayerHeight,
		LaserSpeed:    DefaultLaserSpeed,
		LaserLifetime: DefaultLaserLifetime,
	}
}

// Validate reports the first inconsistency in s.
func (s Settings) Validate() error {
	if s.GridSize < MinGridSize {
		return fmt.Errorf("%w: %d < %d", ErrGridTooSmall, s.GridSize, MinGridSize)
	}
	if s.GridSize%2 == 0 {
		return fmt.Errorf("%w: %d", ErrEvenGridSize, s.GridSize)
	}
	if s.CellSize <= 0 || s.WallHeight <= 0 {
		return ErrNonPositiveSize
	}
	if s.LaserSpeed <= 0 || s.LaserLifetime <= 0 {
		return ErrInvalidLaser
	}
	return nil
}

// HalfExtent is half the world-space width of the maze.
func (s Settings) HalfExtent() float64 {
	return float64(s.GridSize) * s.CellSize / 2
}

// WorldToGrid maps a world position to the cell containing it. The result may
// lie outside the grid.
func (s Settings) WorldToGrid(p Vec3) GridPoint {
	half := s.HalfExtent()
	return GridPoint{
		X: int(math.Floor((p.X + half) / s.CellSize)),
		Z: int(math.Floor((p.Z + half) / s.CellSize)),
	}
}

// GridToWorldCenter returns the centre of cell c at height y.
func (s Settings) GridToWorldCenter(c GridPoint, y float64) Vec3 {
	half := s.HalfExtent()
	return Vec3{
		X: (float64(c.X)+0.5)*s.CellSize - half,
		Y: y,
		Z: (float64(c.Z)+0.5)*s.CellSize - half,
	}
}

// InBounds reports whether c lies within [0, GridSize) on both axes.
func (s Settings) InBounds(c GridPoint) bool {
	return c.X >= 0 && c.X < s.GridSize && c.Z >= 0 && c.Z < s.GridSize
}
