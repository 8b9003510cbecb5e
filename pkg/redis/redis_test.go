package redis

import (
	"context"
	"testing"
	"time"

	"github.com/gigapp/gig/backend/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "gig")
	cfg := GigAPIRateLimit(10)

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != cfg.Limit {
		t.Errorf("Expected remaining = %d, got %d", cfg.Limit, remaining)
	}
	if err := limiter.Wait(context.Background(), cfg); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "gig")
	ctx := context.Background()

	if err := cache.Set(ctx, SessionKey("default"), "token", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var result string
	found, err := cache.Get(ctx, SessionKey("default"), &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
	if err := cache.Delete(ctx, SessionKey("default")); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestKeys(t *testing.T) {
	if got := SessionKey("venue-admin"); got != "session:venue-admin" {
		t.Errorf("SessionKey() = %q", got)
	}

	cfg := GigAPIRateLimit(7)
	if cfg.Key != "gig-api" || cfg.Limit != 7 || cfg.Window != time.Second {
		t.Errorf("GigAPIRateLimit() = %+v", cfg)
	}
}
