package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/store"
)

type MessageHandler struct {
	Users    store.UserStore
	Messages store.MessageStore
}

// History returns the full conversation between the caller and a peer,
// oldest first. Clients use it to reconcile after reconnects; every message
// broadcast over a live channel is re-fetchable here.
func (h *MessageHandler) History(c *gin.Context) {
	u, ok := currentUser(c, h.Users)
	if !ok {
		return
	}

	peer := c.Param("peerId")
	if peer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing peer"})
		return
	}

	msgs, err := h.Messages.ListConversation(c.Request.Context(), u.ID, peer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}
