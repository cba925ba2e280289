package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/grasplabs/grasp/pkg/errors"
	"github.com/grasplabs/grasp/pkg/graph"
	grio "github.com/grasplabs/grasp/pkg/io"
	"github.com/grasplabs/grasp/pkg/pipeline"
)

// requestOptions extracts read/write options from query parameters.
func requestOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()

	opts := pipeline.Options{
		EdgePredicate: q.Get("edge_predicate"),
		Strict:        q.Get("strict") == "true",
	}
	if opts.EdgePredicate == "" {
		opts.EdgePredicate = pipeline.DefaultEdgePredicate
	}
	if err := errors.ValidatePredicateName(opts.EdgePredicate); err != nil {
		return pipeline.Options{}, "", err
	}

	targetPred := q.Get("target_edge_predicate")
	if targetPred == "" {
		targetPred = opts.EdgePredicate
	}
	if err := errors.ValidatePredicateName(targetPred); err != nil {
		return pipeline.Options{}, "", err
	}

	return opts, targetPred, nil
}

// readBodyGraph parses the request body as fact text through the runner,
// so the configured cache backend serves repeated submissions.
func (s *Server) readBodyGraph(w http.ResponseWriter, r *http.Request, opts pipeline.Options) (*graph.Graph, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}

	g, _, err := s.runner.LoadBytes(r.Context(), body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return g, true
}

// handleClean returns the canonical serialization of the posted facts.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	opts, targetPred, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, ok := s.readBodyGraph(w, r, opts)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := grio.WriteGraph(g, &buf, targetPred); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "serialize facts"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// splitResponse is the JSON body returned by /v1/split.
type splitResponse struct {
	Components []string `json:"components"`
}

// handleSplit returns one canonical fact document per connected component.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	opts, targetPred, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, ok := s.readBodyGraph(w, r, opts)
	if !ok {
		return
	}

	resp := splitResponse{Components: []string{}}
	for _, comp := range g.Components() {
		var buf bytes.Buffer
		if err := grio.WriteGraph(g.Subgraph(comp), &buf, targetPred); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "serialize component"))
			return
		}
		resp.Components = append(resp.Components, buf.String())
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleInfo returns graph statistics for the posted facts.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	opts, _, err := requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, ok := s.readBodyGraph(w, r, opts)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, pipeline.Describe(g))
}

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTemplate,
		errors.ErrCodeInvalidPredicate, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeParse:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"err", err,
			"request_id", requestIDFrom(r.Context()))
	}

	s.writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: requestIDFrom(r.Context()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
