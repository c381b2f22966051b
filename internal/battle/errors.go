package battle

import "errors"

var (
	// ErrNotLive is returned when a connection is gone or was never registered.
	ErrNotLive = errors.New("connection is not live")
	// ErrSameConnection is returned when a pairing draws the same ID twice.
	ErrSameConnection = errors.New("cannot pair a connection with itself")
	// ErrJoinFailed wraps transport failures while joining a room.
	ErrJoinFailed = errors.New("transport room join failed")
	// ErrInvariant marks a broken state invariant. It indicates a bug and is
	// raised with panic.
	ErrInvariant = errors.New("battle invariant violated")
)
