package service

import (
	"context"
)

// GameServer is a single maze game loop as the session manager drives it.
type GameServer interface {
	// Start requests the first maze and processes events until Stop.
	Start()

	// Stop ends the game and cancels any maze generation in flight.
	Stop()

	// Done is closed when the game has stopped.
	Done() <-chan struct{}

	// Do runs fn against the session on the game goroutine.
	Do(ctx context.Context, fn func(*Session)) error

	// Dispatch applies an action and returns its error.
	Dispatch(ctx context.Context, a Action) error

	// SetWatchers records the number of subscribed clients.
	SetWatchers(n int)

	// StateChan returns the channel of encoded snapshots.
	StateChan() <-chan []byte

	// ActionChan returns the channel for encoded actions.
	ActionChan() chan<- []byte
}
