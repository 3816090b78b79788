package service

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/google/uuid"
)

// ErrUnknownAction is returned for an action type the session cannot handle.
var ErrUnknownAction = errors.New("unknown action")

// ActionType enumerates the events collaborators report to a session.
type ActionType uint8

const (
	ActionPlay ActionType = iota + 1
	ActionFocusLost
	ActionWin
	ActionNewGame
	ActionRetry
	ActionReset
	ActionBreadcrumb
	ActionFire
	ActionRemoveLaser
	ActionAlienHit
	ActionExplosionComplete
	ActionReachExit
)

var actionNames = map[ActionType]string{
	ActionPlay:              "play",
	ActionFocusLost:         "focus_lost",
	ActionWin:               "win",
	ActionNewGame:           "new_game",
	ActionRetry:             "retry",
	ActionReset:             "reset",
	ActionBreadcrumb:        "breadcrumb",
	ActionFire:              "fire",
	ActionRemoveLaser:       "remove_laser",
	ActionAlienHit:          "alien_hit",
	ActionExplosionComplete: "explosion_complete",
	ActionReachExit:         "reach_exit",
}

func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(t))
}

// ParseActionType is the inverse of ActionType.String.
func ParseActionType(s string) (ActionType, error) {
	for t, name := range actionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is one input or rendering event. Position is used by breadcrumb,
// fire and reach_exit; Direction by fire; LaserID by remove_laser and
// alien_hit.
type Action struct {
	Type      ActionType
	Position  geometry.Vec3
	Direction geometry.Vec3
	LaserID   uuid.UUID
}

// Encoder converts snapshots and actions to and from a wire format.
type Encoder interface {
	MarshalSnapshot(Snapshot) ([]byte, error)
	UnmarshalAction([]byte) (Action, error)
}
