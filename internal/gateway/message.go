package gateway

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/hub"
	"hirehub-gateway/internal/metrics"
	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/store"
)

type sendMessagePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
	TempID  string `json:"tempId"`
}

// handleSendMessage runs the message pipeline: resolve the receiver, persist,
// re-read resolved, broadcast to the receiver's channel, echo to the sender's
// channel with the client's tempId attached. Persistence always happens
// before any broadcast, so a delivered message can later be re-fetched from
// history.
func (s *Server) handleSendMessage(sender *model.User, hc *hub.Connection, raw json.RawMessage) {
	var p sendMessagePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.To == "" || p.Message == "" {
		metrics.MessagesTotal.WithLabelValues("invalid").Inc()
		s.log.Warn().Str("user", sender.ID).Msg("dropping malformed sendMessage payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
	defer cancel()

	// The receiver must resolve to a user record. Channel names share one
	// namespace with email and administrative channels, so an unchecked
	// value would let a client address those directly or persist a message
	// that no history fetch can ever find.
	receiver, err := s.users.FindByID(ctx, p.To)
	if err != nil {
		metrics.MessagesTotal.WithLabelValues("invalid").Inc()
		s.log.Warn().Str("user", sender.ID).Str("to", p.To).Msg("dropping message to unknown receiver")
		s.sendError(hc, p.TempID, "unknown receiver")
		return
	}

	msg, err := s.messages.Create(ctx, store.NewMessage{
		Sender:   sender.ID,
		Receiver: receiver.ID,
		Body:     p.Message,
	})
	if err != nil {
		metrics.MessagesTotal.WithLabelValues("persist_error").Inc()
		s.log.Error().Err(err).Str("user", sender.ID).Msg("message persist failed")
		s.sendError(hc, p.TempID, "message not sent")
		return
	}

	resolved, err := s.messages.FindResolved(ctx, msg.ID)
	if err != nil {
		// The record is durable; fall back to unresolved participant refs
		// rather than dropping the broadcast.
		s.log.Error().Err(err).Str("message", msg.ID).Msg("message re-read failed")
		resolved = &model.ResolvedMessage{
			ID:        msg.ID,
			Sender:    model.UserRef{ID: msg.Sender},
			Receiver:  model.UserRef{ID: msg.Receiver},
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		}
	}

	// The delivered flag flips only when the receiver has at least one live
	// handle at broadcast time. Best effort: a flag update failure is logged
	// and the broadcast proceeds with the flag unset.
	if s.hub.Members(receiver.ID) > 0 {
		if err := s.messages.MarkDelivered(ctx, msg.ID); err != nil {
			s.log.Warn().Err(err).Str("message", msg.ID).Msg("delivered flag update failed")
		} else {
			resolved.Delivered = true
		}
	}

	if payload, err := hub.Encode(hub.EventReceiveMessage, resolved); err == nil {
		s.hub.Broadcast(receiver.ID, payload)
	}

	echo := *resolved
	echo.TempID = p.TempID
	if payload, err := hub.Encode(hub.EventReceiveMessage, echo); err == nil {
		s.hub.Broadcast(sender.ID, payload)
	}

	metrics.MessagesTotal.WithLabelValues("sent").Inc()
}

// sendError signals a failed send to the originating connection only, so the
// client can stop waiting on its optimistic local message.
func (s *Server) sendError(hc *hub.Connection, tempID, reason string) {
	payload, err := hub.Encode(hub.EventMessageError, gin.H{"tempId": tempID, "error": reason})
	if err != nil {
		return
	}
	if err := hc.Writer.Write(payload); err != nil {
		s.log.Debug().Err(err).Msg("error signal write failed")
	}
}
