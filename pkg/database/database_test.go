package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/signpost/pkg/database"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSetsPoolParams(t *testing.T) {
	cfg := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "testdb",
		User:            "testuser",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "3s",
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	if got := sys.Connection().Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
	if sys.Ready() {
		t.Error("Ready() before Start should be false")
	}
}

func TestPingUnreachable(t *testing.T) {
	cfg := database.Config{
		DSN:             "postgres://nobody@127.0.0.1:1/none?sslmode=disable",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "1m",
		ConnTimeout:     "500ms",
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	err = sys.Ping(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() error = %v, want ErrNotReady", err)
	}
	if sys.Ready() {
		t.Error("Ready() after failed ping should be false")
	}
}
