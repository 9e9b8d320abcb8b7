package infrastructure_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/JaimeStill/signpost/internal/config"
	"github.com/JaimeStill/signpost/internal/infrastructure"
	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/database"
	"github.com/JaimeStill/signpost/pkg/inference"
	"github.com/JaimeStill/signpost/pkg/lifecycle"
)

type countingModel struct {
	closed int
}

func (m *countingModel) Predict(context.Context, []float32) ([]float32, error) { return nil, nil }
func (m *countingModel) Metadata() inference.Metadata                          { return inference.DefaultMetadata() }
func (m *countingModel) Close() error {
	m.closed++
	return nil
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json output: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Errorf("entry: got %v", entry)
	}

	buf.Reset()
	logger = infrastructure.NewLogger(&config.LogConfig{Level: "info", Format: "text"}, &buf)
	logger.Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output: got %q", buf.String())
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LogConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "msg=kept") {
		t.Errorf("warn output: got %q", buf.String())
	}
}

func TestReadyWithoutDatabase(t *testing.T) {
	infra := &infrastructure.Infrastructure{Lifecycle: lifecycle.New()}

	if infra.Ready() {
		t.Fatal("ready before startup")
	}
	infra.Lifecycle.WaitForStartup()
	if !infra.Ready() {
		t.Error("not ready after startup")
	}
	if infra.Connection() != nil {
		t.Error("connection: want nil without database")
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestClose(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dbCfg := database.Config{Host: "localhost", Port: 5432, Name: "signpost", User: "signpost", SSLMode: "disable"}
	if err := dbCfg.Finalize(nil); err != nil {
		t.Fatalf("database finalize: %v", err)
	}
	db, err := database.New(&dbCfg, logger)
	if err != nil {
		t.Fatalf("database: %v", err)
	}

	mr := miniredis.RunT(t)
	cacheCfg := cache.Config{Enabled: true, Addr: mr.Addr()}
	if err := cacheCfg.Finalize(nil); err != nil {
		t.Fatalf("cache finalize: %v", err)
	}

	model := &countingModel{}
	infra := &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Model:     model,
		Database:  db,
		Cache:     cache.New(&cacheCfg, logger),
	}

	if err := infra.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if model.closed != 1 {
		t.Errorf("model close calls: got %d, want 1", model.closed)
	}
	if err := infra.Connection().PingContext(context.Background()); err == nil || !strings.Contains(err.Error(), "closed") {
		t.Errorf("database ping after close: got %v, want closed error", err)
	}
	if err := infra.Cache.Set(context.Background(), "k", "v"); err == nil {
		t.Error("cache set after close: want error")
	}
}

func TestCloseSkipsDisabled(t *testing.T) {
	model := &countingModel{}
	infra := &infrastructure.Infrastructure{Lifecycle: lifecycle.New(), Model: model}

	if err := infra.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if model.closed != 1 {
		t.Errorf("model close calls: got %d, want 1", model.closed)
	}
}
