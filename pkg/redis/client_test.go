package redis

import (
	"testing"

	"github.com/emberforge/shopledger-backend/pkg/config"
)

func TestKeyBuilders(t *testing.T) {
	c := &Client{}

	if got := c.IdempotencyKey("transfers", "abc"); got != "sl:idempotency:transfers:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.LockKey("log-retention"); got != "sl:lock:log-retention" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := c.CounterKey(""); got != "sl:counter" {
		t.Fatalf("empty segments should be skipped, got %q", got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when url and address are both empty")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("pool size fallback not applied, got %d", opts.PoolSize)
	}
}
