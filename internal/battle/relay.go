package battle

import (
	"encoding/json"

	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

// Relay forwards a signaling payload from senderID to the other members of
// its room without looking inside it. Messages from connections outside a
// room are dropped; the room may have just been torn down.
func (e *Engine) Relay(senderID, kind string, payload json.RawMessage) []Outbound {
	if !models.IsSignaling(kind) {
		e.log.Warn("relay of non-signaling event refused",
			zap.String("conn_id", senderID), zap.String("type", kind))
		return nil
	}
	if _, ok := e.conns[senderID]; !ok {
		e.log.Debug("signaling from unregistered connection dropped", zap.String("conn_id", senderID))
		return nil
	}
	roomID, ok := e.registry.RoomID(senderID)
	if !ok {
		e.log.Info("signaling outside a room dropped",
			zap.String("conn_id", senderID), zap.String("type", kind))
		return nil
	}
	return []Outbound{toRoom(roomID, senderID, models.Envelope{Type: kind, Payload: payload})}
}
