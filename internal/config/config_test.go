package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"AUTH_SECRET": "x"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected default gin mode release, got %q", cfg.GinMode)
	}
	if cfg.CookieName != "jwt" {
		t.Fatalf("expected default cookie jwt, got %q", cfg.CookieName)
	}
	if cfg.StreamTTL != time.Hour {
		t.Fatalf("expected default stream ttl 1h, got %v", cfg.StreamTTL)
	}
	if cfg.Mongo.Database != "hirehub" {
		t.Fatalf("expected default database hirehub, got %q", cfg.Mongo.Database)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(t, map[string]string{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	if _, err := load(t, map[string]string{"AUTH_SECRET": "x", "PORT": "70000"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStreamSecrets_Order(t *testing.T) {
	cfg := Config{AuthSecret: "general", StreamSecret: "stream"}
	got := cfg.StreamSecrets()
	if len(got) != 2 || got[0] != "stream" || got[1] != "general" {
		t.Fatalf("expected stream secret first, got %v", got)
	}

	cfg = Config{AuthSecret: "general"}
	got = cfg.StreamSecrets()
	if len(got) != 1 || got[0] != "general" {
		t.Fatalf("expected general secret only, got %v", got)
	}
}
