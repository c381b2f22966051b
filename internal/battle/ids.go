package battle

import "github.com/google/uuid"

// IDGenerator produces room identifiers.
type IDGenerator interface {
	NewRoomID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewRoomID() string { return uuid.NewString() }
