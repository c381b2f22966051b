// Package handler exposes the HTTP surface: anonymous identity issuance, the
// websocket upgrade into the hub, and a health probe.
package handler

import (
	"net/http"

	"battlegogo/backend/internal/auth"
	"battlegogo/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BanChecker reports whether a principal may open a connection.
type BanChecker interface {
	IsUserBanned(principalID string) (bool, error)
}

// PresenceTracker is told about every websocket that opens and closes.
type PresenceTracker interface {
	Online(principalID string)
	Offline(principalID string)
}

// Handler holds the dependencies of the HTTP routes. Bans and Presence are
// optional.
type Handler struct {
	Hub      *hub.Hub
	Issuer   *auth.Issuer
	Bans     BanChecker
	Presence PresenceTracker

	sendBuffer int
	log        *zap.Logger
}

func NewHandler(h *hub.Hub, issuer *auth.Issuer, bans BanChecker, presence PresenceTracker, sendBuffer int, log *zap.Logger) *Handler {
	return &Handler{
		Hub:        h,
		Issuer:     issuer,
		Bans:       bans,
		Presence:   presence,
		sendBuffer: sendBuffer,
		log:        log,
	}
}

// Routes builds the gin engine serving every route of the service.
func (h *Handler) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/anonid", h.GetAnonID)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/healthz", h.Health)
	return r
}

// Health reports the hub's counters, or 503 once the hub has stopped.
func (h *Handler) Health(c *gin.Context) {
	stats, err := h.Hub.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   stats.Connections,
		"waiting":       stats.Waiting,
		"rooms":         stats.Rooms,
		"started_rooms": stats.StartedRooms,
	})
}
