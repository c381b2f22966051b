package handler

import (
	"net/http"

	"battlegogo/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients are browsers on arbitrary origins; the token is the gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the caller, upgrades the connection and hands
// it to the hub. It returns when the socket closes.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	principalID, err := h.Issuer.Verify(tokenString)
	if err != nil {
		h.log.Debug("rejected token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	if h.Bans != nil {
		banned, err := h.Bans.IsUserBanned(principalID)
		if err != nil {
			h.log.Warn("ban lookup failed, admitting", zap.String("principal_id", principalID), zap.Error(err))
		}
		if banned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Banned"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Presence is recorded before the hub can pair this client.
	if h.Presence != nil {
		h.Presence.Online(principalID)
		defer h.Presence.Offline(principalID)
	}

	client := hub.NewWebSocketClient(h.Hub, conn, principalID, h.sendBuffer, h.log)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}

	client.Run()
}
