package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/lifecycle"
)

type entry struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func newCache(t *testing.T) (cache.System, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := cache.Config{Enabled: true, Addr: mr.Addr(), TTL: "1m"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cache.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestRoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	want := entry{Name: "stop", Items: []string{"a", "b"}}
	if err := c.Set(ctx, "k", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Errorf("ttl: got %v, want 1m", ttl)
	}

	var got entry
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("get: key missing")
	}
	if got.Name != want.Name || len(got.Items) != 2 {
		t.Errorf("get: got %+v", got)
	}
}

func TestMiss(t *testing.T) {
	c, _ := newCache(t)

	var got entry
	ok, err := c.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("get: want miss")
	}
}

func TestExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", entry{Name: "yield"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got entry
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("get: want expired")
	}
}

func TestCorruptValue(t *testing.T) {
	c, mr := newCache(t)
	mr.Set("k", "not json")

	var got entry
	if _, err := c.Get(context.Background(), "k", &got); err == nil {
		t.Error("expected decode error")
	}
}

func TestUnavailable(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	if err := c.Set(context.Background(), "k", entry{}); err == nil {
		t.Error("expected error with server down")
	}
}

func TestStartReady(t *testing.T) {
	c, _ := newCache(t)
	lc := lifecycle.New()

	if err := c.Start(lc); err != nil {
		t.Fatalf("start: %v", err)
	}
	lc.WaitForStartup()

	if !c.Ready() {
		t.Error("not ready after startup")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if c.Ready() {
		t.Error("ready after shutdown")
	}
}

func TestClose(t *testing.T) {
	c, _ := newCache(t)

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Set(context.Background(), "k", entry{Name: "stop"}); err == nil {
		t.Error("set after close: want error")
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     cache.Config
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, c cache.Config)
	}{
		{
			name: "disabled skips validation",
			cfg:  cache.Config{TTL: "bogus"},
		},
		{
			name: "defaults",
			cfg:  cache.Config{Enabled: true},
			check: func(t *testing.T, c cache.Config) {
				if c.Addr != "localhost:6379" || c.TTLDuration() != 24*time.Hour {
					t.Errorf("defaults: got %+v", c)
				}
			},
		},
		{
			name: "env override",
			env:  map[string]string{"TEST_CACHE_ENABLED": "true", "TEST_CACHE_DB": "3"},
			check: func(t *testing.T, c cache.Config) {
				if !c.Enabled || c.DB != 3 {
					t.Errorf("env: got %+v", c)
				}
			},
		},
		{
			name:    "invalid ttl",
			cfg:     cache.Config{Enabled: true, TTL: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := tt.cfg
			err := cfg.Finalize(&cache.Env{Enabled: "TEST_CACHE_ENABLED", DB: "TEST_CACHE_DB"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("finalize: got %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
