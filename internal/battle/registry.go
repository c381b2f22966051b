package battle

import "fmt"

// Registry owns the room table and the connection->room index. All room
// membership reads and writes go through it so the two never drift apart.
type Registry struct {
	rooms  map[string]*Room
	roomOf map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		roomOf: make(map[string]string),
	}
}

// RoomID returns the room connID currently belongs to.
func (r *Registry) RoomID(connID string) (string, bool) {
	roomID, ok := r.roomOf[connID]
	return roomID, ok
}

func (r *Registry) Room(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// RoomOf resolves connID straight to its room.
func (r *Registry) RoomOf(connID string) (*Room, bool) {
	roomID, ok := r.roomOf[connID]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[roomID]
	if !ok {
		panic(fmt.Errorf("%w: connection %s indexed to missing room %s", ErrInvariant, connID, roomID))
	}
	return room, true
}

func (r *Registry) Len() int { return len(r.rooms) }

func (r *Registry) add(room *Room) {
	if _, exists := r.rooms[room.ID]; exists {
		panic(fmt.Errorf("%w: room %s already exists", ErrInvariant, room.ID))
	}
	for _, m := range room.Members {
		if other, ok := r.roomOf[m]; ok {
			panic(fmt.Errorf("%w: connection %s already in room %s", ErrInvariant, m, other))
		}
	}
	r.rooms[room.ID] = room
	for _, m := range room.Members {
		r.roomOf[m] = room.ID
	}
}

// remove deletes the room and the index entries of its members.
func (r *Registry) remove(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	delete(r.rooms, roomID)
	for _, m := range room.Members {
		if r.roomOf[m] == roomID {
			delete(r.roomOf, m)
		}
	}
	return room, true
}

func (r *Registry) each(fn func(*Room)) {
	for _, room := range r.rooms {
		fn(room)
	}
}
