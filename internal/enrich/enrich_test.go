package enrich_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/JaimeStill/signpost/internal/enrich"
	"github.com/JaimeStill/signpost/pkg/cache"
	"github.com/JaimeStill/signpost/pkg/imagesearch"
)

type fakeSearch struct {
	mu      sync.Mutex
	images  []imagesearch.Image
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, n int) ([]imagesearch.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.images) > n {
		return f.images[:n], nil
	}
	return f.images, nil
}

func (f *fakeSearch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeWiki struct {
	mu    sync.Mutex
	texts map[int]string
	errs  map[int]error
	calls []int
}

func (f *fakeWiki) Summary(_ context.Context, _ string, sentences int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sentences)
	if err := f.errs[sentences]; err != nil {
		return "", err
	}
	return f.texts[sentences], nil
}

type fakeTranslator struct {
	prefix string
	err    error
	calls  int
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.prefix + text, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newConfig(t *testing.T) *enrich.Config {
	t.Helper()
	cfg := &enrich.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func defaultWiki() *fakeWiki {
	return &fakeWiki{
		texts: map[int]string{5: "Five sentences.", 2: "Two sentences."},
	}
}

func sixImages() []imagesearch.Image {
	images := make([]imagesearch.Image, 6)
	for i := range images {
		images[i] = imagesearch.Image{URL: "http://img/" + string(rune('a'+i)), Title: "sign"}
	}
	images[1].Title = ""
	return images
}

func TestEmptyQuery(t *testing.T) {
	search := &fakeSearch{}
	wiki := defaultWiki()
	tr := &fakeTranslator{}

	sys := enrich.New(newConfig(t), search, wiki, tr, nil, discardLogger())

	for _, q := range []string{"", "   "} {
		r := sys.Enrich(context.Background(), q, false)
		if !r.Empty() || len(r.Images) != 0 || r.ShortSummary != "" {
			t.Errorf("query %q: got %+v, want zero result", q, r)
		}
	}

	if search.calls() != 0 || len(wiki.calls) != 0 || tr.calls != 0 {
		t.Error("collaborators called for empty query")
	}
}

func TestEnrich(t *testing.T) {
	tests := []struct {
		name      string
		fullInfo  bool
		wiki      *fakeWiki
		tr        *fakeTranslator
		wantShort string
		wantFull  string
		wantCalls []int
	}{
		{
			name:      "short summary",
			wiki:      defaultWiki(),
			tr:        &fakeTranslator{prefix: "T:"},
			wantShort: "T:Two sentences.",
			wantFull:  "Five sentences.",
			wantCalls: []int{5, 2},
		},
		{
			name:      "full info reuses full summary",
			fullInfo:  true,
			wiki:      defaultWiki(),
			tr:        &fakeTranslator{prefix: "T:"},
			wantShort: "T:Five sentences.",
			wantFull:  "Five sentences.",
			wantCalls: []int{5},
		},
		{
			name: "full lookup failure falls back",
			wiki: &fakeWiki{
				errs: map[int]error{5: errors.New("no page")},
			},
			tr:        &fakeTranslator{},
			wantShort: enrich.NoDescription,
			wantFull:  "",
			wantCalls: []int{5},
		},
		{
			name: "short lookup failure keeps full",
			wiki: &fakeWiki{
				texts: map[int]string{5: "Five sentences."},
				errs:  map[int]error{2: errors.New("timeout")},
			},
			tr:        &fakeTranslator{},
			wantShort: enrich.NoDescription,
			wantFull:  "Five sentences.",
			wantCalls: []int{5, 2},
		},
		{
			name:      "translation failure keeps original",
			wiki:      defaultWiki(),
			tr:        &fakeTranslator{err: errors.New("quota")},
			wantShort: "Two sentences.",
			wantFull:  "Five sentences.",
			wantCalls: []int{5, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &fakeSearch{images: sixImages()}
			sys := enrich.New(newConfig(t), search, tt.wiki, tt.tr, nil, discardLogger())

			r := sys.Enrich(context.Background(), "stop", tt.fullInfo)

			if r.Query != "stop" {
				t.Errorf("query: got %q", r.Query)
			}
			if r.ShortSummary != tt.wantShort {
				t.Errorf("short: got %q, want %q", r.ShortSummary, tt.wantShort)
			}
			if r.FullSummary != tt.wantFull {
				t.Errorf("full: got %q, want %q", r.FullSummary, tt.wantFull)
			}
			if len(tt.wiki.calls) != len(tt.wantCalls) {
				t.Fatalf("wiki calls: got %v, want %v", tt.wiki.calls, tt.wantCalls)
			}
			for i := range tt.wantCalls {
				if tt.wiki.calls[i] != tt.wantCalls[i] {
					t.Errorf("wiki calls: got %v, want %v", tt.wiki.calls, tt.wantCalls)
				}
			}
			if tt.tr.calls != 1 {
				t.Errorf("translate calls: got %d, want 1", tt.tr.calls)
			}
		})
	}
}

func TestImages(t *testing.T) {
	t.Run("capped and titled", func(t *testing.T) {
		search := &fakeSearch{images: sixImages()}
		sys := enrich.New(newConfig(t), search, defaultWiki(), &fakeTranslator{}, nil, discardLogger())

		r := sys.Enrich(context.Background(), "yield", false)

		if len(r.Images) != 5 {
			t.Fatalf("images: got %d, want 5", len(r.Images))
		}
		if r.Images[1].Title != enrich.DefaultImageTitle {
			t.Errorf("default title: got %q", r.Images[1].Title)
		}
		if r.Error != "" {
			t.Errorf("error: got %q", r.Error)
		}
		if search.queries[0] != "yield traffic sign" {
			t.Errorf("search query: got %q", search.queries[0])
		}
	})

	t.Run("failure", func(t *testing.T) {
		search := &fakeSearch{err: errors.New("503")}
		sys := enrich.New(newConfig(t), search, defaultWiki(), &fakeTranslator{}, nil, discardLogger())

		r := sys.Enrich(context.Background(), "yield", false)

		if len(r.Images) != 0 || r.Error != enrich.SearchUnavailable {
			t.Errorf("got images %d error %q", len(r.Images), r.Error)
		}
		if r.ShortSummary != "Two sentences." {
			t.Errorf("summary should survive search failure: got %q", r.ShortSummary)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		search := &fakeSearch{err: imagesearch.ErrNotConfigured}
		sys := enrich.New(newConfig(t), search, defaultWiki(), &fakeTranslator{}, nil, discardLogger())

		r := sys.Enrich(context.Background(), "yield", false)

		if r.Error != enrich.SearchNotConfigured {
			t.Errorf("error: got %q", r.Error)
		}
	})
}

func newCache(t *testing.T) (cache.System, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := cache.Config{Enabled: true, Addr: mr.Addr()}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("cache finalize: %v", err)
	}
	return cache.New(&cfg, discardLogger()), mr
}

func TestCache(t *testing.T) {
	store, mr := newCache(t)
	search := &fakeSearch{images: sixImages()}
	wiki := defaultWiki()

	sys := enrich.New(newConfig(t), search, wiki, &fakeTranslator{}, store, discardLogger())

	first := sys.Enrich(context.Background(), "Stop", false)
	second := sys.Enrich(context.Background(), "stop", false)

	if search.calls() != 1 {
		t.Errorf("search calls: got %d, want 1", search.calls())
	}
	if second.ShortSummary != first.ShortSummary || len(second.Images) != len(first.Images) {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
	if !mr.Exists("signpost:enrich:en:short:stop") {
		t.Errorf("cache key missing: %v", mr.Keys())
	}

	sys.Enrich(context.Background(), "stop", true)
	if search.calls() != 2 {
		t.Errorf("full_info should use a separate key: search calls %d", search.calls())
	}
}

func TestCacheSkipsNotices(t *testing.T) {
	store, mr := newCache(t)
	search := &fakeSearch{err: errors.New("down")}

	sys := enrich.New(newConfig(t), search, defaultWiki(), &fakeTranslator{}, store, discardLogger())

	sys.Enrich(context.Background(), "stop", false)
	sys.Enrich(context.Background(), "stop", false)

	if search.calls() != 2 {
		t.Errorf("search calls: got %d, want 2", search.calls())
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("results with notices cached: %v", mr.Keys())
	}
}

func TestCacheSkipsFallbacks(t *testing.T) {
	tests := []struct {
		name string
		wiki *fakeWiki
		tr   *fakeTranslator
	}{
		{
			name: "summary lookup failed",
			wiki: &fakeWiki{errs: map[int]error{5: errors.New("timeout")}},
			tr:   &fakeTranslator{},
		},
		{
			name: "short summary lookup failed",
			wiki: &fakeWiki{
				texts: map[int]string{5: "Five sentences."},
				errs:  map[int]error{2: errors.New("timeout")},
			},
			tr: &fakeTranslator{},
		},
		{
			name: "translation failed",
			wiki: defaultWiki(),
			tr:   &fakeTranslator{err: errors.New("quota")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mr := newCache(t)
			sys := enrich.New(newConfig(t), &fakeSearch{images: sixImages()}, tt.wiki, tt.tr, store, discardLogger())

			sys.Enrich(context.Background(), "stop", false)
			if len(mr.Keys()) != 0 {
				t.Fatalf("fallback result cached: %v", mr.Keys())
			}

			tt.wiki.mu.Lock()
			tt.wiki.texts = map[int]string{5: "Five sentences.", 2: "Two sentences."}
			tt.wiki.errs = nil
			tt.wiki.mu.Unlock()
			tt.tr.err = nil

			r := sys.Enrich(context.Background(), "stop", false)
			if r.ShortSummary != "Two sentences." {
				t.Errorf("after recovery: got %q, want fresh summary", r.ShortSummary)
			}
			if !mr.Exists("signpost:enrich:en:short:stop") {
				t.Errorf("recovered result not cached: %v", mr.Keys())
			}
		})
	}
}

func TestCacheUnavailable(t *testing.T) {
	store, mr := newCache(t)
	mr.Close()

	sys := enrich.New(newConfig(t), &fakeSearch{}, defaultWiki(), &fakeTranslator{}, store, discardLogger())

	r := sys.Enrich(context.Background(), "stop", false)
	if r.ShortSummary != "Two sentences." {
		t.Errorf("cache failure should not break enrichment: got %+v", r)
	}
}

func TestLookupHandler(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantQuery   string
		wantSummary string
		wantSearch  int
	}{
		{"blank query", "/enrich?q=+", "", "", 0},
		{"missing query", "/enrich", "", "", 0},
		{"query", "/enrich?q=stop", "stop", "Two sentences.", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &fakeSearch{images: sixImages()}
			sys := enrich.New(newConfig(t), search, defaultWiki(), &fakeTranslator{}, nil, discardLogger())
			h := enrich.NewHandler(sys, discardLogger())

			rec := httptest.NewRecorder()
			h.Lookup(rec, httptest.NewRequest("GET", tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}

			var got enrich.Result
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Query != tt.wantQuery || got.ShortSummary != tt.wantSummary {
				t.Errorf("result: got %+v", got)
			}
			if search.calls() != tt.wantSearch {
				t.Errorf("search calls: got %d, want %d", search.calls(), tt.wantSearch)
			}
		})
	}
}
