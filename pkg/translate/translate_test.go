package translate_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/signpost/pkg/translate"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTranslator(t *testing.T, cfg translate.Config) translate.Translator {
	t.Helper()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	tr, err := translate.New(context.Background(), &cfg, discardLogger())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return tr
}

func TestWebTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("tl") != "de" || q.Get("q") != "Stop sign. Halt." {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[[["Stoppschild. ","Stop sign. ",null,null,1],["Halt.","Halt.",null,null,1]],null,"en"]`)
	}))
	defer srv.Close()

	tr := newTranslator(t, translate.Config{Provider: translate.ProviderWeb, Endpoint: srv.URL})

	got, err := tr.Translate(context.Background(), "Stop sign. Halt.", "de")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Stoppschild. Halt." {
		t.Errorf("translate: got %q", got)
	}
}

func TestWebTranslateFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ``},
		{"empty array", http.StatusOK, `[]`},
		{"null segments", http.StatusOK, `[null,null,"en"]`},
		{"malformed", http.StatusOK, `{"not":"an array"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			tr := newTranslator(t, translate.Config{Provider: translate.ProviderWeb, Endpoint: srv.URL})
			if _, err := tr.Translate(context.Background(), "text", "en"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCloudTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("key") != "secret" {
			t.Errorf("key: got %q", r.FormValue("key"))
		}
		if r.FormValue("target") != "fr" {
			t.Errorf("target: got %q", r.FormValue("target"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":{"translations":[{"translatedText":"Panneau d&#39;arrêt"}]}}`)
	}))
	defer srv.Close()

	tr := newTranslator(t, translate.Config{
		Provider: translate.ProviderCloud,
		APIKey:   "secret",
		Endpoint: srv.URL + "/language/translate/",
	})

	got, err := tr.Translate(context.Background(), "Stop sign", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Panneau d'arrêt" {
		t.Errorf("translate: got %q", got)
	}
}

func TestPassthrough(t *testing.T) {
	tr := newTranslator(t, translate.Config{Provider: translate.ProviderNone})

	got, err := tr.Translate(context.Background(), "unchanged", "ja")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "unchanged" {
		t.Errorf("translate: got %q", got)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := translate.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Provider != translate.ProviderWeb || cfg.Target != "en" {
			t.Errorf("defaults: got provider %q target %q", cfg.Provider, cfg.Target)
		}
		if cfg.Endpoint != "https://translate.googleapis.com/translate_a/single" {
			t.Errorf("endpoint: got %q", cfg.Endpoint)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_TRANSLATE_TARGET", "es")
		cfg := translate.Config{}
		if err := cfg.Finalize(&translate.Env{Target: "TEST_TRANSLATE_TARGET"}); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Target != "es" {
			t.Errorf("target: got %q", cfg.Target)
		}
	})

	t.Run("cloud requires key", func(t *testing.T) {
		cfg := translate.Config{Provider: translate.ProviderCloud}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := translate.Config{Provider: "babelfish"}
		err := cfg.Finalize(nil)
		if !errors.Is(err, translate.ErrUnsupportedProvider) {
			t.Errorf("got %v, want ErrUnsupportedProvider", err)
		}
	})
}
