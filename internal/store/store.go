// Package store defines the document-store operations the gateway consumes
// and their MongoDB implementations. The gateway never caches records beyond
// the request that created them; the store is the single source of truth for
// message and notification content.
package store

import (
	"context"

	"hirehub-gateway/internal/model"
)

// UserStore reads user records. The gateway itself never mutates users;
// UpdateRole exists for the thin administrative REST glue.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)
}

// NewMessage carries the only fields a client controls when sending.
type NewMessage struct {
	Sender   string
	Receiver string
	Body     string
}

type MessageStore interface {
	Create(ctx context.Context, m NewMessage) (*model.Message, error)
	// FindResolved re-reads a persisted message with both participants
	// resolved to display form.
	FindResolved(ctx context.Context, id string) (*model.ResolvedMessage, error)
	// ListConversation returns the full history between two users, oldest
	// first, regardless of which side sent each message.
	ListConversation(ctx context.Context, a, b string) ([]*model.Message, error)
	MarkDelivered(ctx context.Context, id string) error
}

// NewNotification carries the fields persisted on fan-out; Read starts false.
type NewNotification struct {
	UserID  string
	Email   string
	Message string
	Type    model.NotificationType
	Link    string
}

type NotificationStore interface {
	Create(ctx context.Context, n NewNotification) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
