package battle

import "battlegogo/backend/internal/models"

// Transport is the session layer the engine drives. Calls happen on the
// goroutine that owns the engine and must not block on network I/O.
type Transport interface {
	// Alive reports whether the connection can still receive events.
	Alive(connID string) bool
	// JoinRoom adds the connections to the room's multicast group. On error
	// none of them may be left in the group.
	JoinRoom(roomID string, connIDs ...string) error
	// LeaveRoom removes the connections from the group. Unknown IDs are ignored.
	LeaveRoom(roomID string, connIDs ...string)
}

// Outbound is an event the transport must deliver. Exactly one of To or Room
// is set. Except excludes one connection from a room multicast.
type Outbound struct {
	To     string
	Room   string
	Except string
	Event  models.Envelope
}

func toConn(connID string, env models.Envelope) Outbound {
	return Outbound{To: connID, Event: env}
}

func toRoom(roomID, except string, env models.Envelope) Outbound {
	return Outbound{Room: roomID, Except: except, Event: env}
}
