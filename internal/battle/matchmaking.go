package battle

import (
	"fmt"

	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

// Enqueue puts a registered connection that is not in a room at the back of
// the queue. It reports whether the queue changed; repeated calls are no-ops.
func (e *Engine) Enqueue(connID string) bool {
	if _, ok := e.conns[connID]; !ok {
		e.log.Warn("enqueue of unknown connection ignored", zap.String("conn_id", connID))
		return false
	}
	if roomID, ok := e.registry.RoomID(connID); ok {
		e.log.Warn("enqueue ignored, connection already in a room",
			zap.String("conn_id", connID), zap.String("room_id", roomID))
		return false
	}
	if !e.queue.Push(connID) {
		e.log.Debug("connection already waiting", zap.String("conn_id", connID))
		return false
	}
	e.log.Info("connection queued", zap.String("conn_id", connID), zap.Int("waiting", e.queue.Len()))
	return true
}

// Dequeue removes connID from the queue. Absent IDs are fine.
func (e *Engine) Dequeue(connID string) bool {
	return e.queue.Remove(connID)
}

// TryPairAll turns waiting connections into rooms two at a time until fewer
// than two remain or a pairing can make no progress.
func (e *Engine) TryPairAll() []Outbound {
	var out []Outbound
	for e.queue.Len() >= 2 {
		a, b, _ := e.queue.PopPair()
		if a == b {
			e.queue.PushFront(a)
			e.log.Warn("pairing drew the same connection twice", zap.String("conn_id", a))
			break
		}

		_, events, err := e.CreateRoom(a, b)
		if err != nil {
			e.log.Info("pairing failed, returning survivors to queue",
				zap.String("first", a), zap.String("second", b), zap.Error(err))
			if e.requeueSurvivors(a, b) == 2 {
				// Both still live, so the transport itself refused. Retrying now
				// would spin.
				break
			}
			continue
		}
		out = append(out, events...)
	}
	return out
}

// requeueSurvivors puts the still-live connections back at the head of the
// queue in their original order and returns how many were requeued.
func (e *Engine) requeueSurvivors(a, b string) int {
	n := 0
	for _, id := range []string{b, a} {
		if _, ok := e.conns[id]; !ok || !e.transport.Alive(id) {
			continue
		}
		if e.queue.PushFront(id) {
			n++
		}
	}
	return n
}

// CreateRoom joins a and b into a fresh room and returns the battleFound
// notifications. Both connections must be registered and live.
func (e *Engine) CreateRoom(a, b string) (string, []Outbound, error) {
	if a == b {
		return "", nil, ErrSameConnection
	}
	for _, id := range []string{a, b} {
		if _, ok := e.conns[id]; !ok || !e.transport.Alive(id) {
			return "", nil, fmt.Errorf("create room with %s: %w", id, ErrNotLive)
		}
		if roomID, ok := e.registry.RoomID(id); ok {
			panic(fmt.Errorf("%w: waiting connection %s is in room %s", ErrInvariant, id, roomID))
		}
	}

	roomID := e.ids.NewRoomID()
	if err := e.transport.JoinRoom(roomID, a, b); err != nil {
		e.transport.LeaveRoom(roomID, a, b)
		return "", nil, fmt.Errorf("create room %s: %w: %w", roomID, ErrJoinFailed, err)
	}

	room := newRoom(roomID, e.now(), a, b)
	e.registry.add(room)

	out := []Outbound{
		toConn(a, envelope(models.EventBattleFound, e.battleFound(roomID, b))),
		toConn(b, envelope(models.EventBattleFound, e.battleFound(roomID, a))),
	}
	e.log.Info("match found",
		zap.String("room_id", roomID), zap.String("first", a), zap.String("second", b))
	return roomID, out, nil
}

func (e *Engine) battleFound(roomID, partnerID string) models.BattleFound {
	return models.BattleFound{
		RoomID: roomID,
		Partner: models.Partner{
			ConnectionID: partnerID,
			PrincipalID:  e.conns[partnerID].PrincipalID,
		},
	}
}
