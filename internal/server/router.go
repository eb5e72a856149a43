package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hirehub-gateway/internal/auth"
	"hirehub-gateway/internal/gateway"
	"hirehub-gateway/internal/handler"
	"hirehub-gateway/internal/hub"
	"hirehub-gateway/internal/middleware"
	"hirehub-gateway/internal/notify"
	"hirehub-gateway/internal/presence"
	"hirehub-gateway/internal/store"
)

type Deps struct {
	Users         store.UserStore
	Messages      store.MessageStore
	Notifications store.NotificationStore

	// StreamSecrets is the websocket credential verification order; the
	// first entry also signs freshly minted stream tokens.
	StreamSecrets []string
	StreamTTL     time.Duration
	CookieName    string

	StoreTimeout time.Duration
	Log          zerolog.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := hub.New()
	reg := presence.NewRegistry()

	gw := gateway.NewServer(gateway.Deps{
		Hub:          h,
		Presence:     reg,
		Users:        deps.Users,
		Messages:     deps.Messages,
		Secrets:      deps.StreamSecrets,
		CookieName:   deps.CookieName,
		StoreTimeout: deps.StoreTimeout,
		Log:          deps.Log,
	})
	r.GET("/ws", gw.Serve)

	notifier := notify.New(notify.Deps{
		Hub:           h,
		Users:         deps.Users,
		Notifications: deps.Notifications,
		Log:           deps.Log,
	})

	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(deps.StreamSecrets...))

	mintLimiter := middleware.NewRateLimiter(10, time.Minute)
	streamTokens := &handler.StreamTokenHandler{
		TokenConfig: auth.TokenConfig{
			Secret: deps.StreamSecrets[0],
			Expiry: deps.StreamTTL,
			Issuer: "hirehub-gateway",
		},
	}
	protected.POST("/stream/token", middleware.RateLimit(mintLimiter), streamTokens.Mint)

	notifications := &handler.NotificationHandler{
		Users:         deps.Users,
		Notifications: deps.Notifications,
		Notifier:      notifier,
	}
	protected.GET("/notifications", notifications.List)
	protected.POST("/notifications", notifications.Create)
	protected.POST("/notifications/:id/read", notifications.MarkRead)
	protected.DELETE("/notifications/:id", notifications.Delete)

	messages := &handler.MessageHandler{Users: deps.Users, Messages: deps.Messages}
	protected.GET("/messages/:peerId", messages.History)

	admin := &handler.AdminHandler{Users: deps.Users, Notifier: notifier, Log: deps.Log}
	protected.PUT("/admin/users/:id/role", admin.UpdateRole)

	return r
}
