package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/jonathan/strongpass/internal/optimal"
	"github.com/jonathan/strongpass/internal/pipeline"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/repair"
	"github.com/jonathan/strongpass/internal/rendering"
	"github.com/jonathan/strongpass/internal/server/middleware"
	"github.com/jonathan/strongpass/internal/types"
	"github.com/jonathan/strongpass/internal/validation"
	"go.uber.org/zap"
)

// PasswordRequest is the body of /check, /fix and /count.
type PasswordRequest struct {
	Password string         `json:"password"`
	Policy   *policy.Policy `json:"policy,omitempty"` // Overrides the server policy
}

// BatchRequest is the body of /batch.
type BatchRequest struct {
	Passwords []string       `json:"passwords"`
	Policy    *policy.Policy `json:"policy,omitempty"`
	Edits     bool           `json:"edits,omitempty"`
}

// CheckResponse is returned by /check.
type CheckResponse struct {
	Compliant  bool              `json:"compliant"`
	Violations []types.Violation `json:"violations"`
}

// FixResponse is returned by /fix.
type FixResponse struct {
	Steps    int                 `json:"steps"`
	Repaired string              `json:"repaired"`
	Edits    []types.Edit        `json:"edits"`
	Diff     []rendering.Segment `json:"diff"`
}

// CountResponse is returned by /count.
type CountResponse struct {
	Steps    int              `json:"steps"`
	Minimum  int              `json:"minimum"`
	Estimate optimal.Estimate `json:"estimate"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePolicy returns the server's default policy
func (s *Server) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.policy)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, p, ok := s.decodePasswordRequest(w, r)
	if !ok {
		return
	}

	violations := validation.Check(req.Password, p)
	s.jsonResponse(w, http.StatusOK, CheckResponse{
		Compliant:  violations.Empty(),
		Violations: violations.Violations,
	})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	req, p, ok := s.decodePasswordRequest(w, r)
	if !ok {
		return
	}

	result := repair.Run(req.Password, p)
	edits := result.Edits
	if edits == nil {
		edits = []types.Edit{}
	}
	s.jsonResponse(w, http.StatusOK, FixResponse{
		Steps:    result.Steps,
		Repaired: result.Password,
		Edits:    edits,
		Diff:     rendering.Diff(req.Password, result.Password),
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	req, p, ok := s.decodePasswordRequest(w, r)
	if !ok {
		return
	}

	estimate := optimal.Compute(req.Password, p)
	s.jsonResponse(w, http.StatusOK, CountResponse{
		Steps:    repair.MinimumEdits(req.Password, p),
		Minimum:  estimate.Total,
		Estimate: estimate,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Passwords) > s.maxBatch {
		s.errorResponse(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch has %d passwords, maximum is %d", len(req.Passwords), s.maxBatch))
		return
	}
	for i, password := range req.Passwords {
		if err := checkPasswordLength(password); err != nil {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("password %d: %v", i, err))
			return
		}
	}
	p, ok := s.resolvePolicy(w, req.Policy)
	if !ok {
		return
	}

	requestID, _ := middleware.RequestIDFrom(r.Context())
	report, err := pipeline.RunBatch(r.Context(), req.Passwords, pipeline.Options{
		Policy:       p,
		Workers:      s.workers,
		IncludeEdits: req.Edits,
		Logger:       s.logger.With(zap.String("request_id", requestID)),
	})
	if err != nil {
		s.logger.Warn("batch failed", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// decodePasswordRequest decodes a PasswordRequest and resolves its policy,
// writing an error response on failure.
func (s *Server) decodePasswordRequest(w http.ResponseWriter, r *http.Request) (PasswordRequest, policy.Policy, bool) {
	var req PasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return req, policy.Policy{}, false
	}
	if err := checkPasswordLength(req.Password); err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return req, policy.Policy{}, false
	}
	p, ok := s.resolvePolicy(w, req.Policy)
	return req, p, ok
}

func (s *Server) resolvePolicy(w http.ResponseWriter, override *policy.Policy) (policy.Policy, bool) {
	if override == nil {
		return s.policy, true
	}
	if err := override.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return policy.Policy{}, false
	}
	if err := checkPolicyBounds(*override); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return policy.Policy{}, false
	}
	return *override, true
}

func checkPasswordLength(password string) error {
	if n := utf8.RuneCountInString(password); n > MaxPasswordRunes {
		return fmt.Errorf("password has %d characters, maximum is %d", n, MaxPasswordRunes)
	}
	return nil
}

// checkPolicyBounds keeps the work of a single repair bounded.
func checkPolicyBounds(p policy.Policy) error {
	if p.MinLength > MaxPasswordRunes || p.MaxLength > MaxPasswordRunes {
		return fmt.Errorf("policy lengths must not exceed %d (got %s)", MaxPasswordRunes, p)
	}
	return nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if _, err := dec.Token(); err != io.EOF {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: trailing data")
		return false
	}
	return true
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
