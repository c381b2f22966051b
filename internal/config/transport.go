package config

import "time"

const (
	// Websocket keepalive
	WriteWait  = 10 * time.Second
	PongWait   = 60 * time.Second
	PingPeriod = (PongWait * 9) / 10

	// SDP offers with many ICE candidates easily exceed a few KB.
	MaxMessageSize = 64 * 1024

	// Hub channels
	DefaultSendBuffer = 256
	IncomingBuffer    = 1024

	// Redis keys
	PresenceKeyPrefix = "presence:"
	BanKeyPrefix      = "ban:"
	KickChannel       = "battle:kick"

	TokenIssuer = "battlegogo-service"
)
