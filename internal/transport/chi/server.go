// Package chi exposes the encoder over HTTP: it previews how a request
// or filter renders for a given peer version without contacting any
// search cluster.
package chi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/querygate"
	"github.com/kailas-cloud/querygate/internal/filterdto"
	"github.com/kailas-cloud/querygate/internal/logger"
	"github.com/kailas-cloud/querygate/internal/metrics"
	"github.com/kailas-cloud/querygate/internal/version"
)

// Server renders preview responses for the querygated HTTP API. It
// logs through the request-scoped logger placed in the context by the
// daemon's middleware.
type Server struct {
	defaultVersion querygate.Version
	peers          map[string]querygate.Version
}

// NewServer creates the preview server. peers pins named peers to
// protocol versions; requests naming no peer and no version use
// defaultVersion.
func NewServer(defaultVersion querygate.Version, peers map[string]querygate.Version) *Server {
	return &Server{defaultVersion: defaultVersion, peers: peers}
}

// Router mounts the API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/rest", s.renderREST)
	r.Post("/v1/wire", s.renderWire)
	r.Post("/v1/filter", s.renderFilter)
	r.Get("/healthz", s.healthz)
	return r
}

// renderRequest is the JSON body shared by /v1/rest and /v1/wire.
type renderRequest struct {
	Peer    string          `json:"peer,omitempty"`
	Version string          `json:"version,omitempty"`
	Indices []string        `json:"indices,omitempty"`
	Types   []string        `json:"types,omitempty"`
	Routing string          `json:"routing,omitempty"`
	Query   json.RawMessage `json:"query,omitempty"`
	Filter  *filterdto.Node `json:"filter,omitempty"`
}

type restResponse struct {
	Method   string            `json:"method"`
	Endpoint string            `json:"endpoint"`
	Params   map[string]string `json:"params"`
	Body     json.RawMessage   `json:"body"`
}

type wireResponse struct {
	Frame string `json:"frame"` // base64
}

// renderREST handles POST /v1/rest.
func (s *Server) renderREST(w http.ResponseWriter, r *http.Request) {
	req, v, ok := s.decodeRenderRequest(w, r, "rest")
	if !ok {
		return
	}

	rest := req.RESTRequest(v)
	metrics.RendersTotal.WithLabelValues("rest", strategyLabel(v)).Inc()
	writeJSON(w, http.StatusOK, restResponse{
		Method:   rest.Method,
		Endpoint: rest.Endpoint,
		Params:   rest.Params,
		Body:     rest.Body,
	})
}

// renderWire handles POST /v1/wire. The frame does not depend on the
// peer version, but the version is still resolved so a request built
// from a filter renders its source consistently with /v1/rest.
func (s *Server) renderWire(w http.ResponseWriter, r *http.Request) {
	req, v, ok := s.decodeRenderRequest(w, r, "wire")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := req.Encode(&buf); err != nil {
		metrics.RenderErrorsTotal.WithLabelValues("wire").Inc()
		logger.FromContext(r.Context()).Error("encode frame", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to encode frame")
		return
	}
	metrics.RendersTotal.WithLabelValues("wire", strategyLabel(v)).Inc()
	writeJSON(w, http.StatusOK, wireResponse{Frame: base64.StdEncoding.EncodeToString(buf.Bytes())})
}

type filterRenderRequest struct {
	Peer    string          `json:"peer,omitempty"`
	Version string          `json:"version,omitempty"`
	Filter  *filterdto.Node `json:"filter"`
}

// renderFilter handles POST /v1/filter.
func (s *Server) renderFilter(w http.ResponseWriter, r *http.Request) {
	var body filterRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	v, err := s.resolveVersion(body.Peer, body.Version)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if body.Filter == nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "filter is required")
		return
	}
	f, err := filterdto.ToFilter(body.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	rendered, err := querygate.RenderFilter(f, v)
	if err != nil {
		metrics.RenderErrorsTotal.WithLabelValues("filter").Inc()
		writeError(w, http.StatusBadRequest, "generation_failed", err.Error())
		return
	}
	metrics.RendersTotal.WithLabelValues("filter", strategyLabel(v)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered)
}

// healthz handles GET /healthz.
func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

// decodeRenderRequest parses the shared render body and builds the
// domain request from it.
func (s *Server) decodeRenderRequest(
	w http.ResponseWriter, r *http.Request, surface string,
) (*querygate.DeleteByQueryRequest, querygate.Version, bool) {
	var body renderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return nil, 0, false
	}

	v, err := s.resolveVersion(body.Peer, body.Version)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, 0, false
	}

	req := querygate.NewDeleteByQuery(body.Indices...).
		Types(body.Types...).
		Routing(body.Routing)

	switch {
	case body.Query != nil && body.Filter != nil:
		writeError(w, http.StatusBadRequest, "validation_failed", "query and filter are mutually exclusive")
		return nil, 0, false
	case body.Query != nil:
		req.SourceBytes(body.Query, querygate.Owned)
	case body.Filter != nil:
		f, err := filterdto.ToFilter(body.Filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return nil, 0, false
		}
		if err := req.SourceQuery(f, v); err != nil {
			metrics.RenderErrorsTotal.WithLabelValues(surface).Inc()
			writeError(w, http.StatusBadRequest, "generation_failed", err.Error())
			return nil, 0, false
		}
	}

	if verr := req.Validate(); verr != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Error())
		return nil, 0, false
	}
	return req, v, true
}

// resolveVersion picks the peer version: an explicit version wins, then
// a peer pin, then the configured default.
func (s *Server) resolveVersion(peer, ver string) (querygate.Version, error) {
	if ver != "" {
		v, err := querygate.ParseVersion(ver)
		if err != nil {
			return 0, err
		}
		return v, nil
	}
	if peer != "" {
		v, ok := s.peers[peer]
		if !ok {
			return 0, errors.New("unknown peer " + peer)
		}
		return v, nil
	}
	return s.defaultVersion, nil
}

func strategyLabel(v querygate.Version) string {
	if v.OnOrAfter(querygate.V5_0_0) {
		return "current"
	}
	return "legacy"
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
