package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/google/uuid"
)

// GameSessionManager manages game sessions for the transports.
type GameSessionManager interface {
	// NewSession starts a session and returns its id.
	NewSession() (uuid.UUID, error)

	// Dispatch applies an action to a session.
	Dispatch(ctx context.Context, id uuid.UUID, a service.Action) error

	// Snapshot returns the current state of a session.
	Snapshot(ctx context.Context, id uuid.UUID) (service.Snapshot, error)

	// CheckPlayerCollision reports whether the player may not move to pos.
	CheckPlayerCollision(ctx context.Context, id uuid.UUID, pos geometry.Vec3) (bool, error)

	// Subscribe streams encoded snapshots until cancel is called or the session ends.
	Subscribe(id uuid.UUID) (updates <-chan []byte, cancel func(), err error)

	CloseSession(id uuid.UUID) error

	StopAll()
}
