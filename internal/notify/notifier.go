// Package notify is the fan-out entry point the REST layer calls after
// mutating state. Every notification is persisted before anything is
// emitted; delivery to a channel with no live members is a no-op, so a
// notification for an offline user still succeeds and stays retrievable.
package notify

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hirehub-gateway/internal/hub"
	"hirehub-gateway/internal/metrics"
	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/store"
)

type Deps struct {
	Hub           *hub.Hub
	Users         store.UserStore
	Notifications store.NotificationStore
	Log           zerolog.Logger
}

type Notifier struct {
	hub           *hub.Hub
	users         store.UserStore
	notifications store.NotificationStore
	log           zerolog.Logger
}

func New(deps Deps) *Notifier {
	return &Notifier{
		hub:           deps.Hub,
		users:         deps.Users,
		notifications: deps.Notifications,
		log:           deps.Log,
	}
}

// Notify persists a notification for userID and emits it to the user's
// channel and to the administrator broadcast. The email is denormalized onto
// the record best-effort; an unresolvable address leaves it empty.
func (n *Notifier) Notify(ctx context.Context, userID, message string, ntype model.NotificationType, link string) (*model.Notification, error) {
	if userID == "" || message == "" {
		return nil, fmt.Errorf("notify: missing target or message")
	}
	if !ntype.Valid() {
		ntype = model.NotificationSystem
	}

	email := ""
	if u, err := n.users.FindByID(ctx, userID); err == nil {
		email = u.Email
	}

	created, err := n.notifications.Create(ctx, store.NewNotification{
		UserID:  userID,
		Email:   email,
		Message: message,
		Type:    ntype,
		Link:    link,
	})
	if err != nil {
		return nil, fmt.Errorf("notify: persist: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(ntype)).Inc()

	n.emit(userID, hub.EventNotificationNew, created)
	n.emit(hub.ChannelAdmins, hub.EventAdminNotification, gin.H{
		"notification": created,
		"to":           userID,
	})
	return created, nil
}

// NotifyEmail targets a user by address, for producers that only know the
// email. When the address resolves to a user record the notification is
// scoped to that user; otherwise it is emitted on the email channel alone.
func (n *Notifier) NotifyEmail(ctx context.Context, email, message string, ntype model.NotificationType, link string) (*model.Notification, error) {
	if u, err := n.users.FindByEmail(ctx, email); err == nil {
		return n.Notify(ctx, u.ID, message, ntype, link)
	}

	if !ntype.Valid() {
		ntype = model.NotificationSystem
	}
	created, err := n.notifications.Create(ctx, store.NewNotification{
		Email:   email,
		Message: message,
		Type:    ntype,
		Link:    link,
	})
	if err != nil {
		return nil, fmt.Errorf("notify: persist: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(ntype)).Inc()

	n.emit(email, hub.EventNotificationNew, created)
	return created, nil
}

// MarkRead flips the read flag and tells the owner's other live devices.
func (n *Notifier) MarkRead(ctx context.Context, userID, id string) error {
	notif, err := n.notifications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notif.UserID != userID {
		return model.ErrNotificationNotFound
	}
	if err := n.notifications.MarkRead(ctx, id); err != nil {
		return err
	}

	n.emit(userID, hub.EventNotificationRead, gin.H{"_id": id})
	return nil
}

// Delete removes a notification on behalf of its owner or an administrator
// and tells the owner's live devices.
func (n *Notifier) Delete(ctx context.Context, userID, id string, asAdmin bool) error {
	notif, err := n.notifications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if notif.UserID != userID && !asAdmin {
		return model.ErrNotificationNotFound
	}
	if err := n.notifications.Delete(ctx, id); err != nil {
		return err
	}

	n.emit(notif.UserID, hub.EventNotificationDeleted, gin.H{"_id": id})
	return nil
}

// UserUpdated announces a role or profile change to every live connection;
// administrative list views have no single fixed recipient.
func (n *Notifier) UserUpdated(user *model.User) {
	n.emitAll(hub.EventUserUpdated, user)
}

func (n *Notifier) UserDeleted(id string) {
	n.emitAll(hub.EventUserDeleted, gin.H{"_id": id})
}

func (n *Notifier) ProjectDeleted(id string) {
	n.emitAll(hub.EventProjectDeleted, gin.H{"_id": id})
}

func (n *Notifier) emit(channel, event string, data any) {
	payload, err := hub.Encode(event, data)
	if err != nil {
		n.log.Error().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	n.hub.Broadcast(channel, payload)
}

func (n *Notifier) emitAll(event string, data any) {
	payload, err := hub.Encode(event, data)
	if err != nil {
		n.log.Error().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	n.hub.BroadcastAll(payload)
}
