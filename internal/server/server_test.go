package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/grasplabs/grasp/pkg/cache"
	"github.com/grasplabs/grasp/pkg/pipeline"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.NewWithOptions(io.Discard, log.Options{}))
	srv := httptest.NewServer(New(runner, log.NewWithOptions(io.Discard, log.Options{})).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestCleanEndpoint(t *testing.T) {
	srv := testServer(t)

	body := "edge(b,a).\nedge(a,b).\n% comment\n"
	resp, err := http.Post(srv.URL+"/v1/clean", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/clean: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	out, _ := io.ReadAll(resp.Body)
	if string(out) != "edge(a,b).\n" {
		t.Errorf("body = %q, want canonical single edge", out)
	}
}

func TestCleanEndpointPredicateRewrite(t *testing.T) {
	srv := testServer(t)

	url := srv.URL + "/v1/clean?edge_predicate=rel&target_edge_predicate=edge"
	resp, err := http.Post(url, "text/plain", strings.NewReader("rel(a,b).\n"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if string(out) != "edge(a,b).\n" {
		t.Errorf("body = %q, want rewritten predicate", out)
	}
}

func TestCleanEndpointInvalidPredicate(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/clean?edge_predicate=Bad", "text/plain", strings.NewReader("edge(a,b).\n"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var e struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Code != "INVALID_PREDICATE" {
		t.Errorf("code = %q, want INVALID_PREDICATE", e.Code)
	}
}

func TestCleanEndpointStrictParseError(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/clean?strict=true", "text/plain", strings.NewReader("broken\n"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestSplitEndpoint(t *testing.T) {
	srv := testServer(t)

	body := "edge(a,b).\nedge(c,d).\nnode(e).\n"
	resp, err := http.Post(srv.URL+"/v1/split", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/split: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Components []string `json:"components"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Components) != 3 {
		t.Fatalf("got %d components, want 3", len(out.Components))
	}
	if out.Components[0] != "edge(a,b).\n" {
		t.Errorf("component 0 = %q", out.Components[0])
	}
	if out.Components[2] != "node(e).\n" {
		t.Errorf("component 2 = %q", out.Components[2])
	}
}

func TestInfoEndpoint(t *testing.T) {
	srv := testServer(t)

	body := "edge(a,b).\nedge(b,c).\nnode(iso).\n"
	resp, err := http.Post(srv.URL+"/v1/info", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/info: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res pipeline.InfoResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Nodes != 4 || res.Edges != 2 || res.Components != 2 || res.IsolatedNodes != 1 {
		t.Errorf("stats = %+v", res)
	}
}
