package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/isotower/pkg/buildinfo"
	"github.com/matzehuels/isotower/pkg/cache"
	"github.com/matzehuels/isotower/pkg/iso"
	"github.com/matzehuels/isotower/pkg/observability"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

const (
	k3 = "Bw"
	p3 = "Bg"
)

// petersen is the Petersen graph as an edge list.
var petersen = GraphSpec{Vertices: 10, Edges: [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0},
	{0, 5}, {1, 6}, {2, 7}, {3, 8}, {4, 9},
	{5, 7}, {7, 9}, {9, 6}, {6, 8}, {8, 5},
}}

func newTestServer(t *testing.T, cfg iso.Config) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s, err := New(Options{
		Config: cfg,
		Runner: pipeline.NewRunner(c, cache.NewKeyer("test:"), logger),
		Logger: logger,
	})
	require.NoError(t, err)
	return s
}

func post(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, "body = %s", rec.Body.String())
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, rec.Code, "body = %s", rec.Body.String())
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	assert.Equal(t, wantCode, e.Code, "message %q", e.Message)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, buildinfo.Short(), body["version"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestIsomorphic(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())

	resp := decodeResponse(t, post(t, s, "/v1/isomorphic", PairRequest{
		G: GraphSpec{Graph6: k3},
		H: GraphSpec{Vertices: 3, Edges: [][2]int{{2, 0}, {0, 1}, {1, 2}}},
	}))
	assert.True(t, resp.Isomorphic, "K3 vs K3")
	assert.Empty(t, resp.Count)

	resp = decodeResponse(t, post(t, s, "/v1/isomorphic", PairRequest{G: GraphSpec{Graph6: k3}, H: GraphSpec{Graph6: p3}}))
	assert.False(t, resp.Isomorphic, "K3 and P3 reported isomorphic")
}

func TestCounts(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())

	resp := decodeResponse(t, post(t, s, "/v1/automorphisms/count", SingleRequest{Graph: petersen}))
	assert.Equal(t, "120", resp.Count)
	assert.False(t, resp.Cached)

	resp = decodeResponse(t, post(t, s, "/v1/automorphisms/count", SingleRequest{Graph: petersen}))
	assert.Equal(t, "120", resp.Count)
	assert.True(t, resp.Cached)

	resp = decodeResponse(t, post(t, s, "/v1/isomorphisms/count", PairRequest{G: GraphSpec{Graph6: p3}, H: GraphSpec{Graph6: p3}}))
	assert.Equal(t, "2", resp.Count)
	assert.True(t, resp.Isomorphic)

	resp = decodeResponse(t, post(t, s, "/v1/isomorphisms/count", PairRequest{G: GraphSpec{Graph6: p3}, H: GraphSpec{Graph6: k3}}))
	assert.Equal(t, "0", resp.Count)
	assert.False(t, resp.Isomorphic)
}

func TestConfigOverride(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())
	body := `{"graph": {"graph6": "Bw"}, "config": {"refinement": "naive", "twin_removal": false}}`
	resp := decodeResponse(t, post(t, s, "/v1/automorphisms/count", body))
	assert.Equal(t, "6", resp.Count, "K3 with naive refinement")

	decodeError(t, post(t, s, "/v1/automorphisms/count", `{"graph": {"graph6": "Bw"}, "config": {"refinement": "slow"}}`),
		http.StatusBadRequest, "INVALID_CONFIG")
}

func TestBudgetCeiling(t *testing.T) {
	cfg := iso.DefaultConfig()
	cfg.MaxNodes = 1
	s := newTestServer(t, cfg)

	// The request asks for more nodes than the server allows.
	body := map[string]any{"graph": petersen, "config": map[string]any{"max_nodes": 1000000}}
	decodeError(t, post(t, s, "/v1/automorphisms/count", body), http.StatusRequestTimeout, "SEARCH_ABORTED")
}

func TestTighter(t *testing.T) {
	tests := []struct{ req, ceiling, want int }{
		{0, 0, 0},
		{5, 0, 5},
		{0, 10, 10},
		{20, 10, 10},
		{5, 10, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tighter(tt.req, tt.ceiling), "tighter(%d, %d)", tt.req, tt.ceiling)
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", "/v1/isomorphic", `{`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", "/v1/isomorphic", `{"x": 1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad graph6", "/v1/automorphisms/count", `{"graph": {"graph6": "B"}}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"self loop", "/v1/automorphisms/count", `{"graph": {"vertices": 2, "edges": [[1, 1]]}}`, http.StatusBadRequest, "INVALID_EDGE"},
		{"both forms", "/v1/automorphisms/count", `{"graph": {"graph6": "Bw", "vertices": 3}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative order", "/v1/isomorphic", `{"g": {"vertices": -1}, "h": {"graph6": "Bw"}}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decodeError(t, post(t, s, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/isomorphic", nil))
	decodeError(t, rec, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	decodeError(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestBodyLimit(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s, err := New(Options{Config: iso.DefaultConfig(), Logger: logger, MaxBodyBytes: 16})
	require.NoError(t, err)
	rec := post(t, s, "/v1/automorphisms/count", SingleRequest{Graph: petersen})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())
	req := httptest.NewRequest(http.MethodPost, "/v1/automorphisms/count", strings.NewReader(`{"graph": {"graph6": "Bw"}}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", decodeResponse(t, rec).RequestID)
}

type recordingHTTP struct {
	observability.NoopHTTPHooks
	requests int
	statuses []int
}

func (r *recordingHTTP) OnRequest(context.Context, string, string) { r.requests++ }

func (r *recordingHTTP) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &recordingHTTP{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	s := newTestServer(t, iso.DefaultConfig())
	post(t, s, "/v1/isomorphic", `{`)
	post(t, s, "/v1/automorphisms/count", `{"graph": {"graph6": "Bw"}}`)

	assert.Equal(t, 2, rec.requests)
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusOK}, rec.statuses)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := iso.DefaultConfig()
	cfg.Timeout = -time.Second
	_, err := New(Options{Config: cfg})
	assert.Error(t, err, "New accepted a negative timeout")
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t, iso.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
