// Package gateway owns the websocket endpoint: it authenticates connection
// attempts, enrolls admitted connections into their channels, keeps the
// presence registry in step with connects and disconnects, and runs the
// message pipeline for inbound sends.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"hirehub-gateway/internal/auth"
	"hirehub-gateway/internal/hub"
	"hirehub-gateway/internal/metrics"
	"hirehub-gateway/internal/model"
	"hirehub-gateway/internal/presence"
	"hirehub-gateway/internal/store"
)

const (
	maxPayload = 1024 * 1024

	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

type Deps struct {
	Hub      *hub.Hub
	Presence *presence.Registry
	Users    store.UserStore
	Messages store.MessageStore

	// Secrets is the credential verification order: the dedicated stream
	// secret first, the general auth secret as fallback.
	Secrets []string
	// CookieName is consulted when the handshake carries no token field.
	CookieName string

	StoreTimeout time.Duration
	Log          zerolog.Logger
}

type Server struct {
	hub      *hub.Hub
	presence *presence.Registry
	users    store.UserStore
	messages store.MessageStore

	secrets      []string
	cookieName   string
	storeTimeout time.Duration
	log          zerolog.Logger

	upgrader websocket.Upgrader
}

func NewServer(deps Deps) *Server {
	timeout := deps.StoreTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Server{
		hub:          deps.Hub,
		presence:     deps.Presence,
		users:        deps.Users,
		messages:     deps.Messages,
		secrets:      deps.Secrets,
		cookieName:   deps.CookieName,
		storeTimeout: timeout,
		log:          deps.Log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles one connection attempt. Admission is decided before the
// upgrade: a rejected attempt never attaches an event handler and can
// neither send nor receive anything.
func (s *Server) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" && s.cookieName != "" {
		token, _ = c.Cookie(s.cookieName)
	}

	claims, err := auth.VerifyToken(token, s.secrets...)
	if err != nil {
		metrics.ConnectionsTotal.WithLabelValues("rejected_credential").Inc()
		s.log.Debug().Err(err).Msg("connection rejected: bad credential")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.storeTimeout)
	user, err := s.users.FindByID(ctx, claims.UserID)
	cancel()
	if err != nil {
		metrics.ConnectionsTotal.WithLabelValues("rejected_subject").Inc()
		s.log.Debug().Err(err).Str("user", claims.UserID).Msg("connection rejected: unknown subject")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn := newConn(ws)
	hc := &hub.Connection{ID: conn.id, UserID: user.ID, Writer: conn}

	s.admit(user, hc)
	metrics.ConnectionsTotal.WithLabelValues("admitted").Inc()
	metrics.ConnectionsActive.Inc()
	s.log.Info().Str("user", user.ID).Str("handle", conn.id).Msg("connection admitted")

	defer func() {
		s.disconnect(user, hc)
		metrics.ConnectionsActive.Dec()
		conn.close()
		s.log.Info().Str("user", user.ID).Str("handle", conn.id).Msg("connection closed")
	}()

	ws.SetReadLimit(maxPayload)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go conn.pingLoop(done)

	// Events of a single connection are handled in arrival order; the only
	// suspension points are bounded persistence calls, which stall this
	// connection alone.
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		env, err := hub.Decode(data)
		if err != nil {
			s.log.Warn().Str("user", user.ID).Msg("dropping malformed frame")
			continue
		}

		switch env.Event {
		case hub.EventSendMessage:
			s.handleSendMessage(user, hc, env.Data)
		default:
			s.log.Debug().Str("event", env.Event).Msg("ignoring unknown event")
		}
	}
}

// admit enrolls the connection into its channels and flips presence. Every
// connection joins the channel named after its user id; the email channel
// exists for producers that only know the address, and administrative roles
// additionally join the admin broadcast channel.
func (s *Server) admit(user *model.User, hc *hub.Connection) {
	s.hub.Join(user.ID, hc)
	if user.Email != "" {
		s.hub.Join(user.Email, hc)
	}
	if user.Role.IsAdmin() {
		s.hub.Join(hub.ChannelAdmins, hc)
	}

	if s.presence.MarkOnline(user.ID, hc.ID) {
		if payload, err := hub.Encode(hub.EventUserOnline, gin.H{"userId": user.ID}); err == nil {
			s.hub.BroadcastAll(payload)
		}
	}
	metrics.UsersOnline.Set(float64(s.presence.OnlineCount()))
}

func (s *Server) disconnect(user *model.User, hc *hub.Connection) {
	s.hub.Unregister(hc)

	if s.presence.MarkOffline(user.ID, hc.ID) {
		if payload, err := hub.Encode(hub.EventUserOffline, gin.H{"userId": user.ID}); err == nil {
			s.hub.BroadcastAll(payload)
		}
	}
	metrics.UsersOnline.Set(float64(s.presence.OnlineCount()))
}
