// Package gameencoder serialises session snapshots and client actions.
package gameencoder

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/google/uuid"
)

// Snapshot is the wire form of service.Snapshot.
type Snapshot struct {
	SessionID   string       `json:"sessionId" msgpack:"sessionId"`
	Version     int64        `json:"version" msgpack:"version"`
	State       string       `json:"state" msgpack:"state"`
	Started     bool         `json:"started" msgpack:"started"`
	Error       string       `json:"error,omitempty" msgpack:"error,omitempty"`
	Settings    Settings     `json:"settings" msgpack:"settings"`
	Size        int          `json:"size" msgpack:"size"`
	Grid        [][]int      `json:"grid,omitempty" msgpack:"grid,omitempty"`
	Start       *[2]int      `json:"start,omitempty" msgpack:"start,omitempty"`
	End         *[2]int      `json:"end,omitempty" msgpack:"end,omitempty"`
	Breadcrumbs [][3]float64 `json:"breadcrumbs" msgpack:"breadcrumbs"`
	Lasers      []Laser      `json:"lasers" msgpack:"lasers"`
	Alien       *Alien       `json:"alien,omitempty" msgpack:"alien,omitempty"`
	Exploding   *[3]float64  `json:"exploding,omitempty" msgpack:"exploding,omitempty"`
}

// Settings carries the world geometry a renderer needs to draw the grid.
type Settings struct {
	GridSize        int     `json:"gridSize" msgpack:"gridSize"`
	CellSize        float64 `json:"cellSize" msgpack:"cellSize"`
	WallHeight      float64 `json:"wallHeight" msgpack:"wallHeight"`
	PlayerHeight    float64 `json:"playerHeight" msgpack:"playerHeight"`
	LaserSpeed      float64 `json:"laserSpeed" msgpack:"laserSpeed"`
	LaserLifetimeMs int64   `json:"laserLifetimeMs" msgpack:"laserLifetimeMs"`
}

type Laser struct {
	ID        string     `json:"id" msgpack:"id"`
	Position  [3]float64 `json:"position" msgpack:"position"`
	Direction [3]float64 `json:"direction" msgpack:"direction"`
}

type Alien struct {
	Position    [3]float64 `json:"position" msgpack:"position"`
	Orientation string     `json:"orientation" msgpack:"orientation"`
	Cell        [2]int     `json:"cell" msgpack:"cell"`
	Destroyed   bool       `json:"destroyed" msgpack:"destroyed"`
}

// Action is the wire form of service.Action.
type Action struct {
	Type      string      `json:"type" msgpack:"type"`
	Position  *[3]float64 `json:"position,omitempty" msgpack:"position,omitempty"`
	Direction *[3]float64 `json:"direction,omitempty" msgpack:"direction,omitempty"`
	LaserID   string      `json:"laserId,omitempty" msgpack:"laserId,omitempty"`
}

func vec(v geometry.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func point(p geometry.GridPoint) *[2]int {
	return &[2]int{p.X, p.Z}
}

func settings(s geometry.Settings) Settings {
	return Settings{
		GridSize:        s.GridSize,
		CellSize:        s.CellSize,
		WallHeight:      s.WallHeight,
		PlayerHeight:    s.PlayerHeight,
		LaserSpeed:      s.LaserSpeed,
		LaserLifetimeMs: s.LaserLifetime.Milliseconds(),
	}
}

// FromSnapshot converts a snapshot to its wire form.
func FromSnapshot(s service.Snapshot) Snapshot {
	out := Snapshot{
		SessionID:   s.SessionID.String(),
		Version:     s.Version,
		State:       s.State.String(),
		Started:     s.Started,
		Error:       s.Error,
		Settings:    settings(s.Settings),
		Breadcrumbs: make([][3]float64, 0, len(s.Breadcrumbs)),
		Lasers:      make([]Laser, 0, len(s.Lasers)),
	}

	if s.Grid != nil {
		out.Size = s.Grid.Size()
		out.Start = point(s.Grid.Start())
		out.End = point(s.Grid.End())
		cells := s.Grid.Cells()
		out.Grid = make([][]int, len(cells))
		for z, row := range cells {
			out.Grid[z] = make([]int, len(row))
			for x, c := range row {
				out.Grid[z][x] = int(c)
			}
		}
	}

	for _, b := range s.Breadcrumbs {
		out.Breadcrumbs = append(out.Breadcrumbs, vec(b))
	}
	for _, l := range s.Lasers {
		out.Lasers = append(out.Lasers, Laser{ID: l.ID.String(), Position: vec(l.Position), Direction: vec(l.Direction)})
	}
	if s.Target != nil {
		out.Alien = &Alien{
			Position:    vec(s.Target.Position),
			Orientation: s.Target.Orientation.String(),
			Cell:        [2]int{s.Target.GridPos.X, s.Target.GridPos.Z},
			Destroyed:   s.Target.Destroyed,
		}
	}
	if s.Exploding != nil {
		e := vec(*s.Exploding)
		out.Exploding = &e
	}
	return out
}

// GridOf rebuilds the maze carried by a wire snapshot, or nil if it has none.
func GridOf(s Snapshot) (*maze.Grid, error) {
	if s.Grid == nil || s.Start == nil || s.End == nil {
		return nil, nil
	}
	return maze.Parse(s.Grid,
		geometry.GridPoint{X: s.Start[0], Z: s.Start[1]},
		geometry.GridPoint{X: s.End[0], Z: s.End[1]})
}

// FromAction converts an action to its wire form.
func FromAction(a service.Action) Action {
	out := Action{Type: a.Type.String()}
	switch a.Type {
	case service.ActionBreadcrumb, service.ActionReachExit:
		p := vec(a.Position)
		out.Position = &p
	case service.ActionFire:
		p, d := vec(a.Position), vec(a.Direction)
		out.Position, out.Direction = &p, &d
	case service.ActionRemoveLaser, service.ActionAlienHit:
		out.LaserID = a.LaserID.String()
	}
	return out
}

// ToAction validates and converts a wire action.
func ToAction(m Action) (service.Action, error) {
	t, err := service.ParseActionType(m.Type)
	if err != nil {
		return service.Action{}, err
	}
	a := service.Action{Type: t}

	switch t {
	case service.ActionBreadcrumb, service.ActionFire, service.ActionReachExit:
		if m.Position == nil {
			return service.Action{}, fmt.Errorf("%s: missing position", m.Type)
		}
		a.Position = geometry.Vec3{X: m.Position[0], Y: m.Position[1], Z: m.Position[2]}
		if t == service.ActionFire {
			if m.Direction == nil {
				return service.Action{}, fmt.Errorf("%s: missing direction", m.Type)
			}
			a.Direction = geometry.Vec3{X: m.Direction[0], Y: m.Direction[1], Z: m.Direction[2]}
		}
	case service.ActionRemoveLaser, service.ActionAlienHit:
		id, err := uuid.Parse(m.LaserID)
		if err != nil {
			return service.Action{}, fmt.Errorf("%s: parsing laser id: %w", m.Type, err)
		}
		a.LaserID = id
	}
	return a, nil
}
