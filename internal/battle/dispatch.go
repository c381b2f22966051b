package battle

import (
	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

// Handle routes one inbound client event to its operation. Connect and
// disconnect come from the transport, not from clients, and have their own
// entry points.
func (e *Engine) Handle(connID string, env models.Envelope) []Outbound {
	switch env.Type {
	case models.EventStartRandomBattle:
		return e.OnStartRequest(connID)
	case models.EventCancelSearch:
		return e.OnCancelSearch(connID)
	case models.EventReadyToStart:
		return e.OnReady(connID)
	case models.EventHangUp:
		return e.OnHangUp(connID)
	case models.EventWebRTCOffer, models.EventWebRTCAnswer, models.EventWebRTCIceCandidate:
		return e.Relay(connID, env.Type, env.Payload)
	default:
		e.log.Warn("unknown event type dropped", zap.String("conn_id", connID), zap.String("type", env.Type))
		return nil
	}
}
