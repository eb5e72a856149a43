package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/auth"
	"hirehub-gateway/internal/middleware"
)

// StreamTokenHandler exchanges a general session token for a short-lived
// stream credential signed with the dedicated streaming secret. The
// websocket handshake accepts either kind, but freshly issued clients are
// expected to present this one.
type StreamTokenHandler struct {
	TokenConfig auth.TokenConfig
}

func (h *StreamTokenHandler) Mint(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	token, err := auth.CreateToken(userID, h.TokenConfig)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(h.TokenConfig.Expiry.Seconds())})
}
