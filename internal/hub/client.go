package hub

import (
	"battlegogo/backend/internal/models"

	"github.com/oklog/ulid/v2"
)

// Client is one transport session (e.g. a WebSocket). The hub only talks to
// it through its send channel.
type Client interface {
	// GetConnectionID returns the transport-assigned unique ID.
	GetConnectionID() string
	// GetPrincipalID returns the authenticated identity behind the connection.
	GetPrincipalID() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	// The hub never blocks on it.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's pumps.
	Run()
	// Close stops the write side. The hub calls it exactly once, when it
	// forgets the client.
	Close()
}

// Inbound is an event read from a client.
type Inbound struct {
	ConnectionID string
	Envelope     models.Envelope
}

// NewConnectionID returns a lexically sortable unique connection ID.
func NewConnectionID() string {
	return ulid.Make().String()
}
