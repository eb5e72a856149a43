package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/notify"
	"hirehub-gateway/internal/store"
)

type NotificationHandler struct {
	Users         store.UserStore
	Notifications store.NotificationStore
	Notifier      *notify.Notifier
}

type createNotificationBody struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Link    string `json:"link"`
}

// Create is the REST layer's notification-emit entry point. The target is
// addressed by user id or, for producers that only know the address, by
// email.
func (h *NotificationHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c, h.Users); !ok {
		return
	}

	var body createNotificationBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.UserID == "" && body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing target"})
		return
	}

	ntype := model.NotificationType(body.Type)
	var (
		created *model.Notification
		err     error
	)
	if body.UserID != "" {
		created, err = h.Notifier.Notify(c.Request.Context(), body.UserID, body.Message, ntype, body.Link)
	} else {
		created, err = h.Notifier.NotifyEmail(c.Request.Context(), body.Email, body.Message, ntype, body.Link)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Notification failed"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *NotificationHandler) List(c *gin.Context) {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return
	}

	ns, err := h.Notifications.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	if ns == nil {
		ns = []*model.Notification{}
	}
	c.JSON(http.StatusOK, ns)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return
	}

	err := h.Notifier.MarkRead(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return
	}

	err := h.Notifier.Delete(c.Request.Context(), u.ID, c.Param("id"), u.Role.IsAdmin())
	if err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
