package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port    int    `env:"PORT, default=3000"`
	GinMode string `env:"GIN_MODE, default=release"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// AuthSecret signs the general REST session tokens. StreamSecret, when
	// set, signs the short-lived websocket credentials; verification tries
	// StreamSecret first and falls back to AuthSecret so that clients
	// holding either kind of token can connect during a rollout.
	AuthSecret   string        `env:"AUTH_SECRET"`
	StreamSecret string        `env:"STREAM_SECRET"`
	StreamTTL    time.Duration `env:"STREAM_TOKEN_TTL, default=1h"`

	// CookieName is the cookie consulted when no token is supplied in the
	// websocket handshake query.
	CookieName string `env:"AUTH_COOKIE, default=jwt"`

	Mongo MongoConfig

	// StoreTimeout bounds every persistence call made by the gateway.
	StoreTimeout time.Duration `env:"STORE_TIMEOUT, default=5s"`

	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=hirehub"`
}

// StreamSecrets returns the token verification secrets in priority order.
func (c Config) StreamSecrets() []string {
	if c.StreamSecret != "" {
		return []string{c.StreamSecret, c.AuthSecret}
	}
	return []string{c.AuthSecret}
}

func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.AuthSecret == "" {
		return Config{}, fmt.Errorf("config: AUTH_SECRET is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %d", cfg.Port)
	}
	if cfg.StreamTTL <= 0 {
		return Config{}, fmt.Errorf("config: invalid STREAM_TOKEN_TTL")
	}
	return cfg, nil
}
