package battle

import (
	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

// MarkReady records that connID finished local setup. When the last member
// becomes ready the room starts and battleStart goes to the whole room, once.
func (e *Engine) MarkReady(connID string) []Outbound {
	room, ok := e.registry.RoomOf(connID)
	if !ok {
		e.log.Info("ready from connection outside any room ignored", zap.String("conn_id", connID))
		return nil
	}
	if !room.markReady(connID) {
		e.log.Debug("member ready",
			zap.String("room_id", room.ID), zap.String("conn_id", connID),
			zap.Int("ready", room.ReadyCount()), zap.Int("members", len(room.Members)))
		return nil
	}
	e.log.Info("battle started", zap.String("room_id", room.ID))
	return []Outbound{toRoom(room.ID, "", envelope(models.EventBattleStart, nil))}
}
