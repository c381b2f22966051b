package battle

import "time"

// Room is one battle between two connections.
//
// Readiness moves Forming (nobody ready) -> Partially Ready -> Started.
// Started never resets; a room that loses a member is destroyed instead.
type Room struct {
	ID        string
	Members   []string
	Started   bool
	CreatedAt time.Time

	ready map[string]struct{}
}

func newRoom(id string, createdAt time.Time, members ...string) *Room {
	return &Room{
		ID:        id,
		Members:   members,
		CreatedAt: createdAt,
		ready:     make(map[string]struct{}, len(members)),
	}
}

func (r *Room) Has(connID string) bool {
	for _, m := range r.Members {
		if m == connID {
			return true
		}
	}
	return false
}

// Others returns every member except connID.
func (r *Room) Others(connID string) []string {
	others := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		if m != connID {
			others = append(others, m)
		}
	}
	return others
}

func (r *Room) IsReady(connID string) bool {
	_, ok := r.ready[connID]
	return ok
}

func (r *Room) ReadyCount() int { return len(r.ready) }

// markReady records connID as ready and reports whether this call moved the
// room to Started. Non-members are ignored.
func (r *Room) markReady(connID string) bool {
	if !r.Has(connID) {
		return false
	}
	r.ready[connID] = struct{}{}
	if r.Started || len(r.ready) != len(r.Members) {
		return false
	}
	r.Started = true
	return true
}

// RoomSnapshot is a read-only copy of a room for callers outside the engine.
type RoomSnapshot struct {
	ID      string   `json:"room_id"`
	Members []string `json:"members"`
	Ready   []string `json:"ready"`
	Started bool     `json:"started"`
}

func (r *Room) snapshot() RoomSnapshot {
	s := RoomSnapshot{
		ID:      r.ID,
		Members: append([]string(nil), r.Members...),
		Ready:   make([]string, 0, len(r.ready)),
		Started: r.Started,
	}
	for _, m := range r.Members {
		if r.IsReady(m) {
			s.Ready = append(s.Ready, m)
		}
	}
	return s
}
