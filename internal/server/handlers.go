package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/isotower/pkg/buildinfo"
	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	graphio "github.com/matzehuels/isotower/pkg/io"
	"github.com/matzehuels/isotower/pkg/iso"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

// GraphSpec is a graph in a request body, as graph6 or as an edge list.
type GraphSpec struct {
	Graph6   string   `json:"graph6,omitempty"`
	Vertices int      `json:"vertices,omitempty"`
	Edges    [][2]int `json:"edges,omitempty"`
}

// Graph builds the graph and its graph6 encoding.
func (s GraphSpec) Graph() (*graph.Graph, string, error) {
	if s.Graph6 != "" {
		if s.Vertices != 0 || len(s.Edges) != 0 {
			return nil, "", errs.New(errs.ErrCodeInvalidInput, "give either graph6 or vertices and edges, not both")
		}
		g, err := graphio.Decode(s.Graph6)
		if err != nil {
			return nil, "", err
		}
		return g, graphio.Encode(g), nil
	}
	g, err := graphio.FromEdges(s.Vertices, s.Edges)
	if err != nil {
		return nil, "", err
	}
	return g, graphio.Encode(g), nil
}

// PairRequest is the body of the pair endpoints.
type PairRequest struct {
	G      GraphSpec       `json:"g"`
	H      GraphSpec       `json:"h"`
	Config json.RawMessage `json:"config,omitempty"`
}

// SingleRequest is the body of the automorphism endpoint.
type SingleRequest struct {
	Graph  GraphSpec       `json:"graph"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is the body of every successful query.
type Response struct {
	Query      string `json:"query"`
	Isomorphic bool   `json:"isomorphic"`
	Count      string `json:"count,omitempty"`
	Via        string `json:"via"`
	Cached     bool   `json:"cached"`
	DurationMS int64  `json:"duration_ms"`
	RequestID  string `json:"request_id"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

func (s *Server) handlePair(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PairRequest
		if !s.decode(w, r, &req) {
			return
		}
		g, gc, err := req.G.Graph()
		if err != nil {
			s.fail(w, r, fmt.Errorf("g: %w", err))
			return
		}
		h, hc, err := req.H.Graph()
		if err != nil {
			s.fail(w, r, fmt.Errorf("h: %w", err))
			return
		}
		s.answer(w, r, name, req.Config, []*graph.Graph{g, h}, []string{gc, hc})
	}
}

func (s *Server) handleAutomorphisms(w http.ResponseWriter, r *http.Request) {
	var req SingleRequest
	if !s.decode(w, r, &req) {
		return
	}
	g, code, err := req.Graph.Graph()
	if err != nil {
		s.fail(w, r, fmt.Errorf("graph: %w", err))
		return
	}
	s.answer(w, r, iso.QueryAutomorphism, req.Config, []*graph.Graph{g}, []string{code})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request, name string, override json.RawMessage, gs []*graph.Graph, codes []string) {
	cfg, err := s.config(override)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	start := time.Now()
	ans, err := s.runner.Answer(r.Context(), pipeline.Query{
		Name:   name,
		Graphs: gs,
		Codes:  codes,
		Config: cfg,
		TTL:    s.ttl,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Query:      name,
		Isomorphic: ans.Isomorphic,
		Count:      ans.Count,
		Via:        ans.Via,
		Cached:     ans.Cached,
		DurationMS: time.Since(start).Milliseconds(),
		RequestID:  RequestID(r.Context()),
	})
}

// config applies a request override to the server config. Budgets in the
// override may only be tighter than the server's.
func (s *Server) config(override json.RawMessage) (iso.Config, error) {
	cfg := s.cfg
	if len(override) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(override, &cfg); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.MaxNodes = tighter(cfg.MaxNodes, s.cfg.MaxNodes)
	cfg.Timeout = time.Duration(tighter(int(cfg.Timeout), int(s.cfg.Timeout)))
	return cfg, nil
}

// tighter returns the stricter of two limits where zero means unlimited.
func tighter(req, ceiling int) int {
	switch {
	case ceiling == 0:
		return req
	case req == 0 || req > ceiling:
		return ceiling
	}
	return req
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, string(errs.ErrCodeInvalidInput), "request body too large")
			return false
		}
		s.fail(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

// fail maps err to a status code and writes the JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	msg := errs.UserMessage(err)
	if status < 500 {
		msg = err.Error()
	}
	writeError(w, status, string(code), msg)
}

func statusFor(err error) int {
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeSearchAborted):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
