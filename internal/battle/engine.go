// Package battle pairs connected clients into two-party rooms, tracks their
// readiness and relays WebRTC signaling between room members.
//
// Engine is a plain state machine: every operation mutates in-memory state
// and returns the events to deliver. It is not safe for concurrent use; the
// caller serializes all calls (see package hub).
package battle

import (
	"time"

	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

type Engine struct {
	log       *zap.Logger
	transport Transport
	ids       IDGenerator
	now       func() time.Time

	conns    map[string]*Connection
	queue    *Queue
	registry *Registry
}

type Option func(*Engine)

// WithIDGenerator replaces the UUID room ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(t Transport, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		log:       log,
		transport: t,
		ids:       UUIDGenerator{},
		now:       time.Now,
		conns:     make(map[string]*Connection),
		queue:     NewQueue(),
		registry:  NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Connection returns the registered connection with the given ID.
func (e *Engine) Connection(connID string) (*Connection, bool) {
	c, ok := e.conns[connID]
	return c, ok
}

// GetRoomID returns the room connID is in, if any.
func (e *Engine) GetRoomID(connID string) (string, bool) {
	return e.registry.RoomID(connID)
}

// Room returns a copy of the room's current state.
func (e *Engine) Room(roomID string) (RoomSnapshot, bool) {
	room, ok := e.registry.Room(roomID)
	if !ok {
		return RoomSnapshot{}, false
	}
	return room.snapshot(), true
}

// Waiting reports whether connID sits in the matchmaking queue.
func (e *Engine) Waiting(connID string) bool { return e.queue.Contains(connID) }

// WaitingIDs lists the queue, oldest first.
func (e *Engine) WaitingIDs() []string { return e.queue.Snapshot() }

// Stats is a point-in-time summary of the engine.
type Stats struct {
	Connections  int `json:"connections"`
	Waiting      int `json:"waiting"`
	Rooms        int `json:"rooms"`
	StartedRooms int `json:"started_rooms"`
}

func (e *Engine) Stats() Stats {
	s := Stats{
		Connections: len(e.conns),
		Waiting:     e.queue.Len(),
		Rooms:       e.registry.Len(),
	}
	e.registry.each(func(r *Room) {
		if r.Started {
			s.StartedRooms++
		}
	})
	return s
}

func envelope(eventType string, payload any) models.Envelope {
	env, err := models.NewEnvelope(eventType, payload)
	if err != nil {
		// Payloads are fixed structs of strings.
		panic(err)
	}
	return env
}
