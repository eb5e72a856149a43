package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/notify"
	"hirehub-gateway/internal/store"
)

// AdminHandler carries the administrative mutations that must fan out live:
// role changes refresh every open admin dashboard, and the affected user is
// notified directly.
type AdminHandler struct {
	Users    store.UserStore
	Notifier *notify.Notifier
	Log      zerolog.Logger
}

type updateRoleBody struct {
	Role string `json:"role"`
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	if _, ok := requireAdmin(c, h.Users); !ok {
		return
	}

	var body updateRoleBody
	if err := c.ShouldBindJSON(&body); err != nil || !model.Role(body.Role).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	updated, err := h.Users.UpdateRole(c.Request.Context(), c.Param("id"), model.Role(body.Role))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	h.Notifier.UserUpdated(updated)
	// The role change itself is committed; a failed notification must not
	// fail the request, but it may not vanish either.
	if _, err := h.Notifier.Notify(c.Request.Context(), updated.ID,
		fmt.Sprintf("Your account role is now %s", updated.Role),
		model.NotificationSystem, ""); err != nil {
		h.Log.Warn().Err(err).Str("user", updated.ID).Msg("role change notification failed")
	}

	c.JSON(http.StatusOK, updated)
}
