package handler

import (
	"net/http"
	"strings"

	"battlegogo/backend/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetAnonID mints a new anonymous principal and returns it with its token.
func (h *Handler) GetAnonID(c *gin.Context) {
	anonID := auth.NewPrincipalID()

	token, err := h.Issuer.Issue(anonID)
	if err != nil {
		h.log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "anon_id": anonID})
}

// bearerToken takes the token from the Authorization header, falling back to
// the token query parameter since browsers cannot set headers on websockets.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}
