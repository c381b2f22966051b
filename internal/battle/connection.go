package battle

import "time"

// Connection is one live transport session of an authenticated principal.
type Connection struct {
	ID          string
	PrincipalID string
	ConnectedAt time.Time
}
