package service

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/google/uuid"
)

// Session errors.
var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrNoMaze            = errors.New("session has no maze")
	ErrGridSizeMismatch  = errors.New("generated grid does not match configured size")
	ErrNotAtExit         = errors.New("position is outside the exit cell")
)

// State is the lifecycle phase of a session.
type State uint8

const (
	StateLoading State = iota + 1
	StateIntro
	StatePlaying
	StateWon
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIntro:
		return "intro"
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var validTransitions = map[State][]State{
	StateLoading: {StateIntro, StateError, StateLoading},
	StateIntro:   {StatePlaying, StateLoading},
	StatePlaying: {StateIntro, StateWon, StatePlaying},
	StateWon:     {StateLoading, StatePlaying},
	StateError:   {StateLoading},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	SessionID   uuid.UUID
	Version     int64
	State       State
	Started     bool
	Error       string
	Settings    geometry.Settings
	Grid        *maze.Grid
	Breadcrumbs []geometry.Vec3
	Lasers      []Laser
	Target      *AlienTarget
	Exploding   *geometry.Vec3
}

// Session is the state machine of one play-through. It owns the maze grid and
// shares it read-only with its resolver and entities. It is not safe for
// concurrent use.
type Session struct {
	id       uuid.UUID
	settings geometry.Settings
	rng      maze.Rand

	state    State
	started  bool
	errMsg   string
	token    uuid.UUID
	version  int64
	grid     *maze.Grid
	resolver *Resolver
	entities *Entities
}

// NewSession returns a session in the loading state. Call BeginGeneration to
// obtain the token for its first maze.
func NewSession(id uuid.UUID, s geometry.Settings, rng maze.Rand) *Session {
	return &Session{
		id:       id,
		settings: s,
		rng:      rng,
		state:    StateLoading,
		entities: NewEntities(s.LaserLifetime),
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Settings() geometry.Settings {
	return s.settings
}

// Grid returns the current maze, or nil while none is loaded.
func (s *Session) Grid() *maze.Grid {
	return s.grid
}

func (s *Session) Entities() *Entities {
	return s.entities
}

// Token identifies the generation request the session is waiting for.
func (s *Session) Token() uuid.UUID {
	return s.token
}

// Version increases on every mutation.
func (s *Session) Version() int64 {
	return s.version
}

func (s *Session) transition(to State) error {
	if !CanTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.state = to
	s.version++
	return nil
}

// BeginGeneration drops the current maze and entities, enters the loading
// state and returns a fresh token. Results for older tokens are discarded.
func (s *Session) BeginGeneration() uuid.UUID {
	s.token = uuid.New()
	s.state = StateLoading
	s.started = false
	s.errMsg = ""
	s.grid = nil
	s.resolver = nil
	s.entities.SetTarget(nil)
	s.entities.Reset()
	s.version++
	return s.token
}

// CompleteGeneration applies the outcome of the request identified by token.
// It returns false when the result is stale and was ignored.
func (s *Session) CompleteGeneration(token uuid.UUID, grid *maze.Grid, genErr error) bool {
	if s.state != StateLoading || token != s.token {
		return false
	}

	if genErr == nil && grid == nil {
		genErr = &maze.GenerationError{Err: ErrNoMaze}
	}
	if genErr == nil && grid.Size() != s.settings.GridSize {
		genErr = &maze.GenerationError{Err: fmt.Errorf("%w: got %d, want %d", ErrGridSizeMismatch, grid.Size(), s.settings.GridSize)}
	}
	if genErr != nil {
		s.errMsg = genErr.Error()
		_ = s.transition(StateError)
		return true
	}

	s.grid = grid
	target := PlaceTarget(grid, s.settings, s.rng)
	s.entities.SetTarget(target)
	s.entities.Reset()
	s.resolver = NewResolver(s.settings, grid, target)
	_ = s.transition(StateIntro)
	return true
}

// Retry leaves the error state and starts a new generation.
func (s *Session) Retry() (uuid.UUID, error) {
	if s.state != StateError {
		return uuid.Nil, fmt.Errorf("%w: retry from %s", ErrInvalidTransition, s.state)
	}
	return s.BeginGeneration(), nil
}

// NewGame discards the current maze and starts a new generation. A request
// made while loading supersedes the one in flight.
func (s *Session) NewGame() (uuid.UUID, error) {
	if !CanTransition(s.state, StateLoading) {
		return uuid.Nil, fmt.Errorf("%w: new game from %s", ErrInvalidTransition, s.state)
	}
	return s.BeginGeneration(), nil
}

// Play starts or resumes play from the intro screen.
func (s *Session) Play() error {
	if s.state != StateIntro {
		return fmt.Errorf("%w: play from %s", ErrInvalidTransition, s.state)
	}
	if err := s.transition(StatePlaying); err != nil {
		return err
	}
	s.started = true
	return nil
}

// FocusLost pauses play. Entities are kept.
func (s *Session) FocusLost() error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: focus lost in %s", ErrInvalidTransition, s.state)
	}
	return s.transition(StateIntro)
}

// Win ends the session.
func (s *Session) Win() error {
	if s.state != StatePlaying {
		return fmt.Errorf("%w: win from %s", ErrInvalidTransition, s.state)
	}
	return s.transition(StateWon)
}

// ResetCurrentGame restarts the current maze: transient entities are cleared,
// the target is restored and play resumes on the same grid.
func (s *Session) ResetCurrentGame() error {
	if s.grid == nil {
		return ErrNoMaze
	}
	switch s.state {
	case StateIntro, StatePlaying, StateWon:
	default:
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, s.state)
	}
	s.entities.Reset()
	s.state = StatePlaying
	s.started = true
	s.version++
	return nil
}

// ReachExit wins the session if pos lies in the exit cell.
func (s *Session) ReachExit(pos geometry.Vec3) error {
	if s.state == StatePlaying && !s.ReachedEnd(pos) {
		return fmt.Errorf("%w: %s", ErrNotAtExit, s.settings.WorldToGrid(pos))
	}
	return s.Win()
}

// ReachedEnd reports whether pos lies in the exit cell.
func (s *Session) ReachedEnd(pos geometry.Vec3) bool {
	if s.grid == nil {
		return false
	}
	return s.settings.WorldToGrid(pos) == s.grid.End()
}

// StartPosition is the world position the player spawns at.
func (s *Session) StartPosition() (geometry.Vec3, error) {
	if s.grid == nil {
		return geometry.Vec3{}, ErrNoMaze
	}
	return s.settings.GridToWorldCenter(s.grid.Start(), s.settings.PlayerHeight), nil
}

func (s *Session) CheckWallCollision(pos geometry.Vec3) bool {
	return s.resolver.CheckWallCollision(pos)
}

func (s *Session) CheckPlayerCollision(pos geometry.Vec3) bool {
	return s.resolver.CheckPlayerCollision(pos)
}

// AddBreadcrumb appends pos to the trail.
func (s *Session) AddBreadcrumb(pos geometry.Vec3) error {
	if s.grid == nil {
		return ErrNoMaze
	}
	s.entities.AddBreadcrumb(pos)
	s.version++
	return nil
}

// AddLaser fires a laser.
func (s *Session) AddLaser(pos, dir geometry.Vec3) (Laser, error) {
	if s.grid == nil {
		return Laser{}, ErrNoMaze
	}
	l := s.entities.AddLaser(pos, dir)
	s.version++
	return l, nil
}

func (s *Session) RemoveLaser(id uuid.UUID) {
	s.entities.RemoveLaser(id)
	s.version++
}

// OnAlienHit removes the laser and destroys the target on its first hit.
func (s *Session) OnAlienHit(laserID uuid.UUID) bool {
	s.version++
	return s.entities.OnAlienHit(laserID)
}

func (s *Session) OnExplosionComplete() {
	s.entities.OnExplosionComplete()
	s.version++
}

// Snapshot copies the state for rendering.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:   s.id,
		Version:     s.version,
		State:       s.state,
		Started:     s.started,
		Error:       s.errMsg,
		Settings:    s.settings,
		Grid:        s.grid,
		Breadcrumbs: s.entities.Breadcrumbs(),
		Lasers:      s.entities.Lasers(),
	}
	if t := s.entities.Target(); t != nil {
		cp := *t
		snap.Target = &cp
	}
	if pos, ok := s.entities.ExplodingPosition(); ok {
		snap.Exploding = &pos
	}
	return snap
}
