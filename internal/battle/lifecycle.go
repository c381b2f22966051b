package battle

import (
	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

// OnConnect registers a transport connection for an authenticated principal
// and tells the client its own connection ID. It has no queue or room side
// effects.
func (e *Engine) OnConnect(connID, principalID string) []Outbound {
	if connID == "" || principalID == "" {
		e.log.Warn("connect without connection or principal ID ignored",
			zap.String("conn_id", connID), zap.String("principal_id", principalID))
		return nil
	}
	if _, exists := e.conns[connID]; exists {
		e.log.Warn("duplicate connect ignored", zap.String("conn_id", connID))
		return nil
	}
	e.conns[connID] = &Connection{ID: connID, PrincipalID: principalID, ConnectedAt: e.now()}
	e.log.Info("connection registered", zap.String("conn_id", connID), zap.String("principal_id", principalID))

	return []Outbound{toConn(connID, envelope(models.EventConnected, models.Connected{
		ConnectionID: connID,
		PrincipalID:  principalID,
	}))}
}

// OnStartRequest queues the connection and attempts pairing. A connection
// already in a room is left alone.
func (e *Engine) OnStartRequest(connID string) []Outbound {
	if !e.Enqueue(connID) {
		return nil
	}
	return e.TryPairAll()
}

// OnCancelSearch takes a waiting connection back out of the queue.
func (e *Engine) OnCancelSearch(connID string) []Outbound {
	if e.Dequeue(connID) {
		e.log.Info("search cancelled", zap.String("conn_id", connID))
	}
	return nil
}

func (e *Engine) OnReady(connID string) []Outbound {
	return e.MarkReady(connID)
}

// OnHangUp ends the caller's battle. The partner is told and requeued; the
// caller is not and has to ask for a new battle itself.
func (e *Engine) OnHangUp(connID string) []Outbound {
	room, ok := e.registry.RoomOf(connID)
	if !ok {
		e.log.Info("hang up from connection outside any room ignored", zap.String("conn_id", connID))
		return nil
	}
	e.log.Info("member hung up", zap.String("room_id", room.ID), zap.String("conn_id", connID))
	return e.teardown(room, connID, models.EventPartnerHangUp)
}

// OnDisconnect forgets the connection. Safe to call for unknown or already
// removed connections.
func (e *Engine) OnDisconnect(connID string) []Outbound {
	_, known := e.conns[connID]
	wasWaiting := e.queue.Remove(connID)
	delete(e.conns, connID)

	room, inRoom := e.registry.RoomOf(connID)
	if !known && !wasWaiting && !inRoom {
		e.log.Debug("disconnect of unknown connection", zap.String("conn_id", connID))
		return nil
	}
	e.log.Info("connection closed",
		zap.String("conn_id", connID), zap.Bool("was_waiting", wasWaiting), zap.Bool("in_room", inRoom))
	if !inRoom {
		return nil
	}
	return e.teardown(room, connID, models.EventPartnerDisconnected)
}

// teardown destroys room because leaver left, notifies and requeues the
// remaining members, then pairs whoever is waiting.
func (e *Engine) teardown(room *Room, leaver, reason string) []Outbound {
	e.registry.remove(room.ID)
	e.transport.LeaveRoom(room.ID, room.Members...)

	var out []Outbound
	for _, member := range room.Others(leaver) {
		out = append(out, toConn(member, envelope(reason, nil)))
		if _, ok := e.conns[member]; ok {
			e.queue.Push(member)
		}
	}
	return append(out, e.TryPairAll()...)
}
