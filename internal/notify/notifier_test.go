package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hirehub-gateway/internal/hub"
	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/store"
)

type stubUsers struct {
	users map[string]*model.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, model.ErrUserNotFound
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *stubUsers) UpdateRole(_ context.Context, id string, role model.Role) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u.Role = role
	clone := *u
	return &clone, nil
}

type stubNotifications struct {
	mu         sync.Mutex
	store      map[string]*model.Notification
	seq        int
	failCreate bool
}

func newStubNotifications() *stubNotifications {
	return &stubNotifications{store: make(map[string]*model.Notification)}
}

func (s *stubNotifications) Create(_ context.Context, nn store.NewNotification) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return nil, errors.New("store down")
	}
	s.seq++
	n := &model.Notification{
		ID:        fmt.Sprintf("n%d", s.seq),
		UserID:    nn.UserID,
		Email:     nn.Email,
		Message:   nn.Message,
		Type:      nn.Type,
		Link:      nn.Link,
		CreatedAt: time.Now().UTC(),
	}
	s.store[n.ID] = n
	clone := *n
	return &clone, nil
}

func (s *stubNotifications) FindByID(_ context.Context, id string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.store[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, model.ErrNotificationNotFound
}

func (s *stubNotifications) ListForUser(_ context.Context, userID string) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for _, n := range s.store {
		if n.UserID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *stubNotifications) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.store[id]
	if !ok {
		return model.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (s *stubNotifications) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.store[id]; !ok {
		return model.ErrNotificationNotFound
	}
	delete(s.store, id)
	return nil
}

type memWriter struct {
	mu     sync.Mutex
	frames []hub.Envelope
}

func (w *memWriter) Write(payload []byte) error {
	env, err := hub.Decode(payload)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.frames = append(w.frames, env)
	w.mu.Unlock()
	return nil
}

func (w *memWriter) Close() error { return nil }

func (w *memWriter) events() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.frames))
	for i, f := range w.frames {
		out[i] = f.Event
	}
	return out
}

func testNotifier() (*Notifier, *hub.Hub, *stubNotifications, *stubUsers) {
	users := &stubUsers{users: map[string]*model.User{
		"u1": {ID: "u1", Name: "Ada", Email: "ada@example.com", Role: model.RoleDeveloper},
		"a1": {ID: "a1", Name: "Root", Email: "root@example.com", Role: model.RoleAdmin},
	}}
	notifications := newStubNotifications()
	h := hub.New()
	n := New(Deps{Hub: h, Users: users, Notifications: notifications, Log: zerolog.Nop()})
	return n, h, notifications, users
}

func TestNotify_PersistsAndDelivers(t *testing.T) {
	n, h, notifications, _ := testNotifier()

	target := &memWriter{}
	admin := &memWriter{}
	other := &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: target})
	h.Join(hub.ChannelAdmins, &hub.Connection{ID: "h2", UserID: "a1", Writer: admin})
	h.Join("u9", &hub.Connection{ID: "h3", UserID: "u9", Writer: other})

	created, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if created.Read {
		t.Fatalf("notification must start unread")
	}
	if created.Email != "ada@example.com" {
		t.Fatalf("expected denormalized email, got %q", created.Email)
	}

	if got := target.events(); len(got) != 1 || got[0] != hub.EventNotificationNew {
		t.Fatalf("expected notification:new at target, got %v", got)
	}
	if got := admin.events(); len(got) != 1 || got[0] != hub.EventAdminNotification {
		t.Fatalf("expected admin:notification:new at admin, got %v", got)
	}
	if got := other.events(); len(got) != 0 {
		t.Fatalf("expected nothing at unrelated connection, got %v", got)
	}

	if _, err := notifications.FindByID(context.Background(), created.ID); err != nil {
		t.Fatalf("expected record retrievable: %v", err)
	}
}

func TestNotify_OfflineTargetStillSucceeds(t *testing.T) {
	n, _, notifications, _ := testNotifier()

	created, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	ns, err := notifications.ListForUser(context.Background(), "u1")
	if err != nil || len(ns) != 1 || ns[0].ID != created.ID {
		t.Fatalf("expected record retrievable later, got %v (%v)", ns, err)
	}
}

func TestNotify_PersistFailureEmitsNothing(t *testing.T) {
	n, h, notifications, _ := testNotifier()
	notifications.failCreate = true

	target := &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: target})

	if _, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, ""); err == nil {
		t.Fatalf("expected error")
	}
	if got := target.events(); len(got) != 0 {
		t.Fatalf("persistence failure must not broadcast, got %v", got)
	}
}

func TestNotify_InvalidTypeFallsBackToSystem(t *testing.T) {
	n, _, _, _ := testNotifier()

	created, err := n.Notify(context.Background(), "u1", "x", "bogus", "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if created.Type != model.NotificationSystem {
		t.Fatalf("expected system fallback, got %q", created.Type)
	}
}

func TestNotifyEmail_ResolvesUser(t *testing.T) {
	n, h, _, _ := testNotifier()

	target := &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: target})

	created, err := n.NotifyEmail(context.Background(), "ada@example.com", "x", model.NotificationReview, "")
	if err != nil {
		t.Fatalf("NotifyEmail: %v", err)
	}
	if created.UserID != "u1" {
		t.Fatalf("expected resolution to u1, got %q", created.UserID)
	}
	if got := target.events(); len(got) != 1 || got[0] != hub.EventNotificationNew {
		t.Fatalf("expected delivery over the user channel, got %v", got)
	}
}

func TestNotifyEmail_UnknownAddressUsesEmailChannel(t *testing.T) {
	n, h, _, _ := testNotifier()

	target := &memWriter{}
	h.Join("ghost@example.com", &hub.Connection{ID: "h1", UserID: "", Writer: target})

	created, err := n.NotifyEmail(context.Background(), "ghost@example.com", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("NotifyEmail: %v", err)
	}
	if created.UserID != "" || created.Email != "ghost@example.com" {
		t.Fatalf("unexpected record: %+v", created)
	}
	if got := target.events(); len(got) != 1 || got[0] != hub.EventNotificationNew {
		t.Fatalf("expected delivery over the email channel, got %v", got)
	}
}

func TestMarkRead_SyncsOwnerDevices(t *testing.T) {
	n, h, notifications, _ := testNotifier()

	created, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	device := &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: device})

	if err := n.MarkRead(context.Background(), "u1", created.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	stored, _ := notifications.FindByID(context.Background(), created.ID)
	if !stored.Read {
		t.Fatalf("expected read flag set")
	}
	if got := device.events(); len(got) != 1 || got[0] != hub.EventNotificationRead {
		t.Fatalf("expected notification:read, got %v", got)
	}
}

func TestMarkRead_ForeignOwnerRejected(t *testing.T) {
	n, _, _, _ := testNotifier()

	created, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if err := n.MarkRead(context.Background(), "a1", created.ID); !errors.Is(err, model.ErrNotificationNotFound) {
		t.Fatalf("expected not-found for foreign owner, got %v", err)
	}
}

func TestDelete_AdminMayDeleteForeign(t *testing.T) {
	n, h, notifications, _ := testNotifier()

	created, err := n.Notify(context.Background(), "u1", "x", model.NotificationSystem, "")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	owner := &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: owner})

	if err := n.Delete(context.Background(), "a1", created.ID, true); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := notifications.FindByID(context.Background(), created.ID); !errors.Is(err, model.ErrNotificationNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
	if got := owner.events(); len(got) != 1 || got[0] != hub.EventNotificationDeleted {
		t.Fatalf("expected notification:deleted at owner, got %v", got)
	}
}

func TestBroadcastHelpers_ReachEveryConnection(t *testing.T) {
	n, h, _, users := testNotifier()

	w1, w2 := &memWriter{}, &memWriter{}
	h.Join("u1", &hub.Connection{ID: "h1", UserID: "u1", Writer: w1})
	h.Join("a1", &hub.Connection{ID: "h2", UserID: "a1", Writer: w2})

	updated, _ := users.UpdateRole(context.Background(), "u1", model.RoleClient)
	n.UserUpdated(updated)
	n.UserDeleted("u9")
	n.ProjectDeleted("p1")

	want := []string{hub.EventUserUpdated, hub.EventUserDeleted, hub.EventProjectDeleted}
	for _, w := range []*memWriter{w1, w2} {
		got := w.events()
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}
}
