package wiki_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/signpost/pkg/wiki"
)

func newClient(t *testing.T, handler http.HandlerFunc) wiki.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &wiki.Config{Endpoint: srv.URL + "/w/api.php"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	return wiki.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSummary(t *testing.T) {
	var sentences, userAgent string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		userAgent = r.Header.Get("User-Agent")
		switch {
		case q.Get("list") == "search":
			if q.Get("srsearch") != "Stop traffic sign" {
				t.Errorf("srsearch = %q", q.Get("srsearch"))
			}
			io.WriteString(w, `{"query":{"search":[{"title":"Stop sign"}]}}`)
		case q.Get("prop") == "extracts|pageprops":
			sentences = q.Get("exsentences")
			if q.Get("titles") != "Stop sign" {
				t.Errorf("titles = %q", q.Get("titles"))
			}
			io.WriteString(w, `{"query":{"pages":[{"title":"Stop sign","extract":"  A stop sign is a traffic sign.  "}]}}`)
		default:
			http.Error(w, "unexpected", http.StatusBadRequest)
		}
	})

	text, err := client.Summary(context.Background(), "Stop traffic sign", 2)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if text != "A stop sign is a traffic sign." {
		t.Errorf("Summary() = %q", text)
	}
	if sentences != "2" {
		t.Errorf("exsentences = %q, want 2", sentences)
	}
	if userAgent == "" {
		t.Error("User-Agent header not sent")
	}
}

func TestSummaryErrors(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		extract string
		status  int
		want    error
	}{
		{
			name:   "no search results",
			search: `{"query":{"search":[]}}`,
			want:   wiki.ErrPageNotFound,
		},
		{
			name:    "missing page",
			search:  `{"query":{"search":[{"title":"X"}]}}`,
			extract: `{"query":{"pages":[{"title":"X","missing":true}]}}`,
			want:    wiki.ErrPageNotFound,
		},
		{
			name:    "disambiguation",
			search:  `{"query":{"search":[{"title":"Yield"}]}}`,
			extract: `{"query":{"pages":[{"title":"Yield","extract":"Yield may refer to:","pageprops":{"disambiguation":""}}]}}`,
			want:    wiki.ErrDisambiguation,
		},
		{
			name:    "empty extract",
			search:  `{"query":{"search":[{"title":"X"}]}}`,
			extract: `{"query":{"pages":[{"title":"X","extract":""}]}}`,
			want:    wiki.ErrPageNotFound,
		},
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
					return
				}
				if r.URL.Query().Get("list") == "search" {
					io.WriteString(w, tt.search)
					return
				}
				io.WriteString(w, tt.extract)
			})

			_, err := client.Summary(context.Background(), "q", 5)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("TEST_WIKI_ENDPOINT", "https://de.wikipedia.org/w/api.php")

	cfg := wiki.Config{}
	if err := cfg.Finalize(&wiki.Env{Endpoint: "TEST_WIKI_ENDPOINT"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != "https://de.wikipedia.org/w/api.php" {
		t.Errorf("endpoint = %s", cfg.Endpoint)
	}
	if cfg.UserAgent == "" || cfg.TimeoutDuration() == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
