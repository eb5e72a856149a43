package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"hirehub-gateway/internal/config"
	"hirehub-gateway/internal/logger"
	"hirehub-gateway/internal/server"
	"hirehub-gateway/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	gin.SetMode(cfg.GinMode)

	client, db, err := store.Connect(ctx, store.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.StoreTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("document store unavailable")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	users := store.NewUserRepository(db)
	messages := store.NewMessageRepository(db, users)
	notifications := store.NewNotificationRepository(db)
	for _, idx := range []interface{ EnsureIndexes(context.Context) error }{users, messages, notifications} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("index creation failed")
		}
	}

	router := server.NewRouter(server.Deps{
		Users:         users,
		Messages:      messages,
		Notifications: notifications,
		StreamSecrets: cfg.StreamSecrets(),
		StreamTTL:     cfg.StreamTTL,
		CookieName:    cfg.CookieName,
		StoreTimeout:  cfg.StoreTimeout,
		Log:           log,
	})

	log.Info().Int("port", cfg.Port).Msg("gateway listening")
	log.Fatal().Err(server.Run(cfg, router)).Msg("server stopped")
}
