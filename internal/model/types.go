package model

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

type Role string

const (
	RoleDeveloper  Role = "developer"
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDeveloper, RoleClient, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role receives administrative broadcasts.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User is read-only from the gateway's point of view; profile mutation
// belongs to the REST layer.
type User struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Role        Role      `json:"role" bson:"role"`
	Connections []string  `json:"connections,omitempty" bson:"connections,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// UserRef is the minimal display form a resolved message carries for each
// participant.
type UserRef struct {
	ID   string `json:"_id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

type Message struct {
	ID        string    `json:"_id" bson:"_id"`
	Sender    string    `json:"sender" bson:"sender"`
	Receiver  string    `json:"receiver" bson:"receiver"`
	Body      string    `json:"message" bson:"message"`
	Delivered bool      `json:"delivered" bson:"delivered"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// ResolvedMessage is a Message re-read after persistence with both
// participants resolved to display form. TempID is only ever set on the copy
// echoed back to the sending client, which matches it against its
// optimistically rendered local message.
type ResolvedMessage struct {
	ID        string    `json:"_id"`
	Sender    UserRef   `json:"sender"`
	Receiver  UserRef   `json:"receiver"`
	Body      string    `json:"message"`
	Delivered bool      `json:"delivered"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	TempID    string    `json:"tempId,omitempty"`
}

type NotificationType string

const (
	NotificationProject     NotificationType = "project"
	NotificationRequirement NotificationType = "requirement"
	NotificationReview      NotificationType = "review"
	NotificationSystem      NotificationType = "system"
	NotificationMessage     NotificationType = "message"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationProject, NotificationRequirement, NotificationReview,
		NotificationSystem, NotificationMessage:
		return true
	}
	return false
}

type Notification struct {
	ID        string           `json:"_id" bson:"_id"`
	UserID    string           `json:"user" bson:"user"`
	Email     string           `json:"email,omitempty" bson:"email,omitempty"`
	Message   string           `json:"message" bson:"message"`
	Type      NotificationType `json:"type" bson:"type"`
	Link      string           `json:"link,omitempty" bson:"link,omitempty"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}
