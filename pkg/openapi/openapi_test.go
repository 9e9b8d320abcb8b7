package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/signpost/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddServer("/api")
	spec.SetDescription("A test API")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Description != "A test API" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %v", spec.Servers)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should be initialized")
	}
}

func TestRefs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"schema", openapi.SchemaRef("Upload").Ref, "#/components/schemas/Upload"},
		{"response", openapi.ResponseRef("NotFound").Ref, "#/components/responses/NotFound"},
		{"request body", openapi.RequestBodyJSON("Query", true).Content["application/json"].Schema.Ref, "#/components/schemas/Query"},
		{"response json", openapi.ResponseJSON("ok", "Result").Content["application/json"].Schema.Ref, "#/components/schemas/Result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("ref: got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("key", "Upload key")
	if p.In != "path" || !p.Required || p.Schema.Type != "string" {
		t.Errorf("path param: got %+v", p)
	}

	q := openapi.QueryParam("q", "string", "Sign name", true)
	if q.In != "query" || !q.Required {
		t.Errorf("query param: got %+v", q)
	}
}

func TestMultipartAndBinary(t *testing.T) {
	rb := openapi.RequestBodyMultipart(&openapi.Schema{Type: "object"})
	if _, ok := rb.Content["multipart/form-data"]; !ok || !rb.Required {
		t.Errorf("multipart body: got %+v", rb)
	}

	res := openapi.ResponseBinary("File")
	if res.Content["application/octet-stream"].Schema.Format != "binary" {
		t.Errorf("binary response: got %+v", res)
	}
}

func TestComponents(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"BadRequest", "NotFound", "TooLarge", "ServiceDisabled"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Upload": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Gone": {Description: "Gone"}})

	if _, ok := c.Schemas["Upload"]; !ok {
		t.Error("Upload schema not added")
	}
	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("default PageRequest schema should still exist")
	}
	if _, ok := c.Responses["Gone"]; !ok {
		t.Error("Gone response not added")
	}
}

func TestWriteJSON(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	path := filepath.Join(t.TempDir(), "openapi.json")

	if err := openapi.WriteJSON(spec, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}
}

func TestServeSpec(t *testing.T) {
	data, err := openapi.MarshalJSON(openapi.NewSpec("Test", "1.0.0"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("body unmarshal failed: %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Signpost API" {
		t.Errorf("title: got %s, want Signpost API", cfg.Title)
	}

	t.Setenv("TEST_TITLE", "Custom API")
	env := &openapi.ConfigEnv{Title: "TEST_TITLE"}
	cfg = openapi.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Custom API" {
		t.Errorf("env title: got %s, want Custom API", cfg.Title)
	}

	cfg.Merge(&openapi.Config{Title: "Overlay"})
	if cfg.Title != "Overlay" {
		t.Errorf("merged title: got %s, want Overlay", cfg.Title)
	}
}
