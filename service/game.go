package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/google/uuid"
)

// Game-related errors.
var (
	ErrGameStopped      = errors.New("game stopped")
	ErrMissingSession   = errors.New("missing session")
	ErrMissingGenerator = errors.New("missing maze generator")
	ErrMissingEncoder   = errors.New("missing game encoder")
	ErrMissingLogger    = errors.New("missing logger")
)

const (
	defaultTickInterval = 100 * time.Millisecond
	stateBufferSize     = 8
)

type command struct {
	fn   func(*Session)
	done chan struct{}
}

type generationResult struct {
	token uuid.UUID
	grid  *maze.Grid
	err   error
}

// Game runs one session on a single goroutine. Actions, queries, generation
// results and ticks are applied in arrival order, so the session needs no
// locking.
type Game struct {
	session   *Session
	generator maze.Generator
	encoder   Encoder
	logger    general_i.Logger
	tick      time.Duration
	now       func() time.Time

	actionChan chan []byte
	commands   chan command
	generated  chan generationResult
	stateChan  chan []byte
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	cancelGen   context.CancelFunc
	lastVersion int64

	idleTimeout  time.Duration
	lastActivity time.Time
	watchers     atomic.Int32
}

// GameConfig holds the collaborators of a Game.
type GameConfig struct {
	Session      *Session
	Generator    maze.Generator
	Encoder      Encoder
	Logger       general_i.Logger
	TickInterval time.Duration // Defaults to 100ms.
	IdleTimeout  time.Duration // Stop after this long unwatched and without input. Zero disables.
}

// NewGame creates a Game for c.Session. Start must be called to run it.
func NewGame(c *GameConfig) (*Game, error) {
	switch {
	case c.Session == nil:
		return nil, ErrMissingSession
	case c.Generator == nil:
		return nil, ErrMissingGenerator
	case c.Encoder == nil:
		return nil, ErrMissingEncoder
	case c.Logger == nil:
		return nil, ErrMissingLogger
	}

	tick := c.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}

	return &Game{
		session:     c.Session,
		generator:   c.Generator,
		encoder:     c.Encoder,
		logger:      c.Logger,
		tick:        tick,
		now:         time.Now,
		actionChan:  make(chan []byte),
		commands:    make(chan command),
		generated:   make(chan generationResult),
		stateChan:   make(chan []byte, stateBufferSize),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		lastVersion: -1,
		idleTimeout: c.IdleTimeout,
	}, nil
}

// Start requests the first maze and processes events until Stop is called.
func (g *Game) Start() {
	defer close(g.done)
	defer close(g.stateChan)

	g.lastActivity = g.now()
	g.generate(g.session.BeginGeneration())
	g.broadcastState()

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			if g.cancelGen != nil {
				g.cancelGen()
			}
			return
		case payload := <-g.actionChan:
			a, err := g.encoder.UnmarshalAction(payload)
			if err != nil {
				g.logger.Warning(fmt.Sprintf("decoding action for session %s: %s", g.session.ID(), err))
				continue
			}
			g.lastActivity = g.now()
			g.handleAction(a)
		case cmd := <-g.commands:
			g.lastActivity = g.now()
			cmd.fn(g.session)
			close(cmd.done)
			g.broadcastIfChanged()
		case res := <-g.generated:
			g.handleGenerated(res)
		case <-ticker.C:
			if g.idle() {
				g.logger.Info(fmt.Sprintf("session %s idle for %s, stopping", g.session.ID(), g.idleTimeout))
				g.Stop()
				continue
			}
			g.expireLasers()
			g.broadcastState()
		}
	}
}

// Stop ends the event loop and cancels any generation in flight.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Done is closed once Start has returned.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// Do runs fn on the game goroutine and waits for it to finish.
func (g *Game) Do(ctx context.Context, fn func(*Session)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case g.commands <- cmd:
	case <-g.stop:
		return ErrGameStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return nil
	case <-g.done:
		return ErrGameStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch applies a on the game goroutine and returns its error.
func (g *Game) Dispatch(ctx context.Context, a Action) error {
	var err error
	if doErr := g.Do(ctx, func(*Session) { err = g.apply(a) }); doErr != nil {
		return doErr
	}
	return err
}

// SetWatchers records how many clients follow the game. A watched game is
// never idle.
func (g *Game) SetWatchers(n int) {
	g.watchers.Store(int32(n))
}

// StateChan returns the channel of encoded snapshots. Snapshots are dropped
// when the reader falls behind; the next one supersedes them.
func (g *Game) StateChan() <-chan []byte {
	return g.stateChan
}

// ActionChan accepts encoded actions.
func (g *Game) ActionChan() chan<- []byte {
	return g.actionChan
}

func (g *Game) idle() bool {
	if g.idleTimeout <= 0 {
		return false
	}
	now := g.now()
	if g.watchers.Load() > 0 {
		g.lastActivity = now
		return false
	}
	return now.Sub(g.lastActivity) >= g.idleTimeout
}

func (g *Game) handleAction(a Action) {
	if err := g.apply(a); err != nil {
		g.logger.Warning(fmt.Sprintf("applying %s to session %s: %s", a.Type, g.session.ID(), err))
		return
	}
	g.broadcastIfChanged()
}

func (g *Game) apply(a Action) error {
	s := g.session
	switch a.Type {
	case ActionPlay:
		return s.Play()
	case ActionFocusLost:
		return s.FocusLost()
	case ActionWin:
		if err := s.Win(); err != nil {
			return err
		}
		g.logger.Info(fmt.Sprintf("session %s won", s.ID()))
	case ActionReachExit:
		if err := s.ReachExit(a.Position); err != nil {
			return err
		}
		g.logger.Info(fmt.Sprintf("session %s reached the exit", s.ID()))
	case ActionNewGame:
		token, err := s.NewGame()
		if err != nil {
			return err
		}
		g.generate(token)
	case ActionRetry:
		token, err := s.Retry()
		if err != nil {
			return err
		}
		g.generate(token)
	case ActionReset:
		return s.ResetCurrentGame()
	case ActionBreadcrumb:
		return s.AddBreadcrumb(a.Position)
	case ActionFire:
		_, err := s.AddLaser(a.Position, a.Direction)
		return err
	case ActionRemoveLaser:
		s.RemoveLaser(a.LaserID)
	case ActionAlienHit:
		if s.OnAlienHit(a.LaserID) {
			g.logger.Info(fmt.Sprintf("alien destroyed in session %s", s.ID()))
		}
	case ActionExplosionComplete:
		s.OnExplosionComplete()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, a.Type)
	}
	return nil
}

// generate starts a generation for token, cancelling the previous one.
func (g *Game) generate(token uuid.UUID) {
	if g.cancelGen != nil {
		g.cancelGen()
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.cancelGen = cancel

	go func() {
		grid, err := g.generator.Generate(ctx)
		select {
		case g.generated <- generationResult{token: token, grid: grid, err: err}:
		case <-g.stop:
		}
	}()
}

func (g *Game) handleGenerated(res generationResult) {
	if !g.session.CompleteGeneration(res.token, res.grid, res.err) {
		g.logger.Info(fmt.Sprintf("discarded stale maze for session %s", g.session.ID()))
		return
	}
	if g.session.State() == StateError {
		g.logger.Error(fmt.Sprintf("generating maze for session %s: %s", g.session.ID(), res.err))
	} else {
		g.logger.Info(fmt.Sprintf("maze ready for session %s", g.session.ID()))
	}
	g.broadcastIfChanged()
}

func (g *Game) expireLasers() {
	for _, id := range g.session.Entities().ExpiredLasers(g.now()) {
		g.session.RemoveLaser(id)
	}
}

func (g *Game) broadcastIfChanged() {
	if g.session.Version() != g.lastVersion {
		g.broadcastState()
	}
}

// broadcastState publishes the current snapshot without blocking the loop.
func (g *Game) broadcastState() {
	payload, err := g.encoder.MarshalSnapshot(g.session.Snapshot())
	if err != nil {
		g.logger.Error(fmt.Sprintf("encoding snapshot for session %s: %s", g.session.ID(), err))
		return
	}
	g.lastVersion = g.session.Version()

	select {
	case g.stateChan <- payload:
	default:
		// Drop the oldest snapshot to make room for the newest.
		select {
		case <-g.stateChan:
		default:
		}
		select {
		case g.stateChan <- payload:
		default:
		}
	}
}
