package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/google/uuid"
)

// Session manager errors.
var (
	ErrSessionNotFound = errors.New("no such session")
	ErrTooManySessions = errors.New("too many sessions")
)

const (
	defaultMaxSessions   = 64
	subscriberBufferSize = 8
)

type sessionEntry struct {
	game        GameServer
	subscribers map[uuid.UUID]chan []byte
}

// GameSessionManager runs independent games keyed by session id and fans
// their snapshots out to subscribers.
type GameSessionManager struct {
	sessions     map[uuid.UUID]*sessionEntry
	settings     geometry.Settings
	mazeFactory  func() maze.Generator
	randFactory  func() maze.Rand
	gameEncoder  Encoder
	logger       general_i.Logger
	tickInterval time.Duration
	idleTimeout  time.Duration
	maxSessions  int
	wg           sync.WaitGroup
	sync.RWMutex
}

// Config holds the dependencies of a GameSessionManager.
type Config struct {
	Settings     geometry.Settings
	MazeFactory  func() maze.Generator // Called once per session.
	RandFactory  func() maze.Rand      // Placement randomness, once per session.
	GameEncoder  Encoder
	Logger       general_i.Logger
	TickInterval time.Duration
	IdleTimeout  time.Duration // Unwatched sessions without input are closed after this. Zero keeps them forever.
	MaxSessions  int           // Defaults to 64.
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if err := c.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if c.MazeFactory == nil || c.RandFactory == nil {
		return nil, ErrMissingGenerator
	}
	if c.GameEncoder == nil {
		return nil, ErrMissingEncoder
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}

	maxSessions := c.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	return &GameSessionManager{
		sessions:     make(map[uuid.UUID]*sessionEntry),
		settings:     c.Settings,
		mazeFactory:  c.MazeFactory,
		randFactory:  c.RandFactory,
		gameEncoder:  c.GameEncoder,
		logger:       c.Logger,
		tickInterval: c.TickInterval,
		idleTimeout:  c.IdleTimeout,
		maxSessions:  maxSessions,
	}, nil
}

// NewSession starts a game and returns its id. The session begins loading
// its first maze immediately.
func (g *GameSessionManager) NewSession() (uuid.UUID, error) {
	g.Lock()
	defer g.Unlock()

	if len(g.sessions) >= g.maxSessions {
		g.logger.Warning(fmt.Sprintf("refusing new session: %d active", len(g.sessions)))
		return uuid.Nil, ErrTooManySessions
	}

	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	game, err := NewGame(&GameConfig{
		Session:      NewSession(sessionID, g.settings, g.randFactory()),
		Generator:    g.mazeFactory(),
		Encoder:      g.gameEncoder,
		Logger:       g.logger,
		TickInterval: g.tickInterval,
		IdleTimeout:  g.idleTimeout,
	})
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating game: %s", err))
		return uuid.Nil, err
	}

	g.sessions[sessionID] = &sessionEntry{game: game, subscribers: make(map[uuid.UUID]chan []byte)}
	g.wg.Add(1)
	go game.Start()
	go g.listenGameChan(sessionID, game)
	g.logger.Info(fmt.Sprintf("started new session: %s", sessionID))
	return sessionID, nil
}

func (g *GameSessionManager) game(id uuid.UUID) (GameServer, error) {
	g.RLock()
	defer g.RUnlock()
	entry, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return entry.game, nil
}

// Dispatch applies an action to a session.
func (g *GameSessionManager) Dispatch(ctx context.Context, id uuid.UUID, a Action) error {
	game, err := g.game(id)
	if err != nil {
		return err
	}
	return game.Dispatch(ctx, a)
}

// Do runs fn against a session on its game goroutine.
func (g *GameSessionManager) Do(ctx context.Context, id uuid.UUID, fn func(*Session)) error {
	game, err := g.game(id)
	if err != nil {
		return err
	}
	return game.Do(ctx, fn)
}

// Snapshot returns the current state of a session.
func (g *GameSessionManager) Snapshot(ctx context.Context, id uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	err := g.Do(ctx, id, func(s *Session) { snap = s.Snapshot() })
	return snap, err
}

// CheckPlayerCollision answers a movement pre-check for a session.
func (g *GameSessionManager) CheckPlayerCollision(ctx context.Context, id uuid.UUID, pos geometry.Vec3) (bool, error) {
	var hit bool
	err := g.Do(ctx, id, func(s *Session) { hit = s.CheckPlayerCollision(pos) })
	return hit, err
}

// Subscribe returns a channel of encoded snapshots for a session and a
// function that cancels the subscription. The channel is closed when the
// session ends.
func (g *GameSessionManager) Subscribe(id uuid.UUID) (<-chan []byte, func(), error) {
	g.Lock()
	defer g.Unlock()
	entry, ok := g.sessions[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	subID := uuid.New()
	ch := make(chan []byte, subscriberBufferSize)
	entry.subscribers[subID] = ch
	entry.game.SetWatchers(len(entry.subscribers))

	cancel := func() {
		g.Lock()
		defer g.Unlock()
		if e, ok := g.sessions[id]; ok {
			if c, ok := e.subscribers[subID]; ok {
				delete(e.subscribers, subID)
				close(c)
				e.game.SetWatchers(len(e.subscribers))
			}
		}
	}
	return ch, cancel, nil
}

// SessionIDs lists the active sessions.
func (g *GameSessionManager) SessionIDs() []uuid.UUID {
	g.RLock()
	defer g.RUnlock()
	ids := make([]uuid.UUID, 0, len(g.sessions))
	for id := range g.sessions {
		ids = append(ids, id)
	}
	return ids
}

// CloseSession stops a session. Its subscribers are closed once the game
// has shut down.
func (g *GameSessionManager) CloseSession(id uuid.UUID) error {
	game, err := g.game(id)
	if err != nil {
		return err
	}
	game.Stop()
	return nil
}

func (g *GameSessionManager) listenGameChan(id uuid.UUID, game GameServer) {
	defer g.wg.Done()
	for payload := range game.StateChan() {
		g.RLock()
		if entry, ok := g.sessions[id]; ok {
			for _, ch := range entry.subscribers {
				select {
				case ch <- payload:
				default:
				}
			}
		}
		g.RUnlock()
	}
	g.clean(id)
}

func (g *GameSessionManager) clean(id uuid.UUID) {
	g.Lock()
	defer g.Unlock()
	if entry, ok := g.sessions[id]; ok {
		for subID, ch := range entry.subscribers {
			delete(entry.subscribers, subID)
			close(ch)
		}
	}
	delete(g.sessions, id)
	g.logger.Info(fmt.Sprintf("closed session: %s", id))
}

// StopAll stops every session and waits for them to shut down.
func (g *GameSessionManager) StopAll() {
	g.RLock()
	for _, entry := range g.sessions {
		entry.game.Stop()
	}
	g.RUnlock()
	g.wg.Wait()
}
