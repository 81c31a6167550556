package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"signalhq/beacon/pkg/policy"
	"signalhq/beacon/pkg/signal"
)

// SignalRequest is the ingest request body. Numeric fields carry full
// floating precision; latency and error are independently optional.
type SignalRequest struct {
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	LatencyMS   *float64          `json:"latency_ms,omitempty"`
	Error       *bool             `json:"error,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
}

// PolicyRequest wraps a policy replacement request.
type PolicyRequest struct {
	Policy *policy.Policy `json:"policy"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// handleIngestSignal accepts a signal, appends it to the rolling buffer, and
// returns the effective configuration for the signal's key.
func (s *Server) handleIngestSignal(w http.ResponseWriter, r *http.Request) {
	var req SignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Service == "" || req.Environment == "" {
		writeError(w, http.StatusBadRequest, "service and environment are required", nil)
		return
	}

	sig := signal.Signal{
		Service:     req.Service,
		Environment: req.Environment,
		Timestamp:   s.signals.Now(),
		LatencyMS:   req.LatencyMS,
		Error:       req.Error != nil && *req.Error,
		Attrs:       req.Attrs,
	}

	cfg := s.engine.Ingest(sig)

	if s.metrics != nil {
		s.metrics.SignalIngested(sig.Service, sig.Environment)
		s.metrics.SetBufferEntries(sig.Service, sig.Environment,
			s.signals.Len(signal.NewKey(sig.Service, sig.Environment)))
	}

	writeJSON(w, http.StatusOK, cfg)
}

// handleGetConfig returns the effective configuration for a key without
// ingesting anything.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")
	environment := r.PathValue("environment")
	if service == "" || environment == "" {
		writeError(w, http.StatusBadRequest, "service and environment are required", nil)
		return
	}

	writeJSON(w, http.StatusOK, s.engine.Evaluate(service, environment))
}

// handleGetPolicy returns a snapshot of the active policy.
func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.policies.Get())
}

// handleSetPolicy validates and atomically replaces the active policy.
// A rejected policy leaves the previous one authoritative.
func (s *Server) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	var req PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Policy == nil {
		writeError(w, http.StatusBadRequest, "policy is required", nil)
		return
	}

	accepted, err := s.policies.Set(req.Policy)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PolicyReload("rejected")
		}
		var ve *policy.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "policy validation failed", ve.Errors)
			return
		}
		writeError(w, http.StatusInternalServerError, "policy replacement failed", nil)
		return
	}

	if s.metrics != nil {
		s.metrics.PolicyReload("accepted")
	}

	writeJSON(w, http.StatusOK, accepted)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError encodes a JSON error response.
func writeError(w http.ResponseWriter, code int, msg string, details []string) {
	writeJSON(w, code, errorResponse{Error: msg, Details: details})
}
