package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/middleware"
	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/store"
)

// currentUser resolves the authenticated request to its user record, writing
// the error response itself on failure.
func currentUser(c *gin.Context, users store.UserStore) (*model.User, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return nil, false
	}

	u, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return nil, false
	}
	return u, true
}

// requireAdmin additionally rejects non-administrative roles.
func requireAdmin(c *gin.Context, users store.UserStore) (*model.User, bool) {
	u, ok := currentUser(c, users)
	if !ok {
		return nil, false
	}
	if !u.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil, false
	}
	return u, true
}
