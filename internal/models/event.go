package models

import "encoding/json"

// Inbound event types sent by clients.
const (
	EventStartRandomBattle  = "startRandomBattle"
	EventCancelSearch       = "cancelSearch"
	EventReadyToStart       = "readyToStart"
	EventHangUp             = "hangUp"
	EventWebRTCOffer        = "webrtc_offer"
	EventWebRTCAnswer       = "webrtc_answer"
	EventWebRTCIceCandidate = "webrtc_ice_candidate"
)

// Outbound event types produced by the server. Signaling events reuse the
// inbound names above.
const (
	EventConnected           = "connected"
	EventBattleFound         = "battleFound"
	EventBattleStart         = "battleStart"
	EventPartnerDisconnected = "partnerDisconnected"
	EventPartnerHangUp       = "partnerHangUp"
)

// Envelope is the frame exchanged over the websocket in both directions.
// Payload is kept raw so signaling data passes through untouched.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// IsSignaling reports whether the event is a WebRTC handshake message.
func IsSignaling(eventType string) bool {
	switch eventType {
	case EventWebRTCOffer, EventWebRTCAnswer, EventWebRTCIceCandidate:
		return true
	}
	return false
}

// Partner identifies the other side of a battle.
type Partner struct {
	ConnectionID string `json:"connectionId"`
	PrincipalID  string `json:"principalId"`
}

// BattleFound is the payload of EventBattleFound.
type BattleFound struct {
	RoomID  string  `json:"roomId"`
	Partner Partner `json:"partner"`
}

// Connected is the payload of EventConnected, telling a client its own
// connection ID so it can run the offer/answer tie-break.
type Connected struct {
	ConnectionID string `json:"connectionId"`
	PrincipalID  string `json:"principalId"`
}

// NewEnvelope marshals payload into an Envelope. A nil payload yields an
// envelope with no payload field.
func NewEnvelope(eventType string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: eventType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: eventType, Payload: raw}, nil
}
