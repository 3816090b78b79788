package service

import (
	"sort"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/google/uuid"
)

// Laser is a projectile fired by the player.
type Laser struct {
	ID        uuid.UUID
	Position  geometry.Vec3
	Direction geometry.Vec3 // unit vector
	FiredAt   time.Time

	seq uint64
}

// Entities owns the transient objects of a session: the breadcrumb trail, the
// lasers in flight and the alien target. It is not safe for concurrent use;
// Game serialises access to it.
type Entities struct {
	breadcrumbs []geometry.Vec3
	lasers      map[uuid.UUID]*Laser
	nextSeq     uint64
	target      *AlienTarget
	exploding   *geometry.Vec3
	lifetime    time.Duration
	newID       func() uuid.UUID
	now         func() time.Time
}

// NewEntities returns an empty entity set. Lasers expire after lifetime.
func NewEntities(lifetime time.Duration) *Entities {
	return &Entities{
		lasers:   make(map[uuid.UUID]*Laser),
		lifetime: lifetime,
		newID:    uuid.New,
		now:      time.Now,
	}
}

// SetTarget replaces the alien target and clears any pending explosion.
func (e *Entities) SetTarget(t *AlienTarget) {
	e.target = t
	e.exploding = nil
}

// Target returns the alien target, or nil if the session has none.
func (e *Entities) Target() *AlienTarget {
	return e.target
}

func (e *Entities) AddBreadcrumb(pos geometry.Vec3) {
	e.breadcrumbs = append(e.breadcrumbs, pos)
}

// Breadcrumbs returns the trail in the order it was laid.
func (e *Entities) Breadcrumbs() []geometry.Vec3 {
	return append([]geometry.Vec3(nil), e.breadcrumbs...)
}

// AddLaser fires a laser from pos along dir.
func (e *Entities) AddLaser(pos, dir geometry.Vec3) Laser {
	id := e.newID()
	for {
		if _, ok := e.lasers[id]; !ok {
			break
		}
		id = e.newID()
	}

	e.nextSeq++
	l := &Laser{
		ID:        id,
		Position:  pos,
		Direction: dir.Normalize(),
		FiredAt:   e.now(),
		seq:       e.nextSeq,
	}
	e.lasers[id] = l
	return *l
}

// RemoveLaser deletes the laser with id. Unknown ids are ignored.
func (e *Entities) RemoveLaser(id uuid.UUID) {
	delete(e.lasers, id)
}

// Lasers returns the lasers in flight in firing order.
func (e *Entities) Lasers() []Laser {
	out := make([]Laser, 0, len(e.lasers))
	for _, l := range e.lasers {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// ExpiredLasers lists the lasers older than the configured lifetime at now.
// Removing them is left to the caller's tick loop.
func (e *Entities) ExpiredLasers(now time.Time) []uuid.UUID {
	var out []uuid.UUID
	for _, l := range e.Lasers() {
		if now.Sub(l.FiredAt) > e.lifetime {
			out = append(out, l.ID)
		}
	}
	return out
}

// OnAlienHit removes the laser and destroys a live target. It reports whether
// this call destroyed the target; later hits only remove their laser.
func (e *Entities) OnAlienHit(laserID uuid.UUID) bool {
	e.RemoveLaser(laserID)
	if e.target == nil || e.target.Destroyed {
		return false
	}
	e.target.Destroyed = true
	pos := e.target.Position
	e.exploding = &pos
	return true
}

// ExplodingPosition returns where the target blew up, while the explosion
// effect is pending.
func (e *Entities) ExplodingPosition() (geometry.Vec3, bool) {
	if e.exploding == nil {
		return geometry.Vec3{}, false
	}
	return *e.exploding, true
}

func (e *Entities) OnExplosionComplete() {
	e.exploding = nil
}

// Reset clears the trail, the lasers and the explosion, and restores the
// target.
func (e *Entities) Reset() {
	e.breadcrumbs = nil
	e.lasers = make(map[uuid.UUID]*Laser)
	e.exploding = nil
	if e.target != nil {
		e.target.Destroyed = false
	}
}
