package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
	"github.com/signal-watch/signalwatch-core/internal/exporters"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// LoginRequest is the operator login payload
// @Description Operator login request
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
// @Description Operator login response
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"bearer"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// ScanAcceptedResponse is returned when an async scan is enqueued
// @Description Async scan accepted response
type ScanAcceptedResponse struct {
	TaskID   string `json:"task_id"`
	ResultID string `json:"result_id"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns readiness, checking the task queue and database when configured
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.taskQueue != nil {
		if err := s.taskQueue.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "task queue unreachable")
			return
		}
	}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Operator login
// @Description  Authenticate with the operator password to receive a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Operator password"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Failure      503      {object}  ErrorResponse  "Auth not configured"
// @Router       /api/v1/auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		writeError(w, http.StatusServiceUnavailable, "authentication not configured")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, expiresIn, err := s.authService.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		} else {
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: expiresIn,
	})
}

// Scan endpoints

// handleScan godoc
// @Summary      Run a synchronous scan
// @Description  Scans the given company numbers and returns the full batch result
// @Tags         Scans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.ScanRequest  true  "Scan request"
// @Success      200      {object}  domain.BatchResult
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      429      {object}  ErrorResponse  "Registry rate limit exhausted"
// @Failure      502      {object}  ErrorResponse  "Registry unavailable"
// @Router       /api/v1/scans [post]
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req driving.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.scanService.Scan(r.Context(), req)
	if err != nil {
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleScanAsync godoc
// @Summary      Enqueue an asynchronous scan
// @Description  Queues a batch scan and returns the task and result identifiers
// @Tags         Scans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.ScanRequest  true  "Scan request"
// @Success      202      {object}  ScanAcceptedResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      503      {object}  ErrorResponse  "Task queue not configured"
// @Router       /api/v1/scans/async [post]
func (s *Server) handleScanAsync(w http.ResponseWriter, r *http.Request) {
	var req driving.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	taskID, resultID, err := s.scanService.ScanAsync(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			writeError(w, http.StatusServiceUnavailable, "task queue unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to enqueue scan")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, ScanAcceptedResponse{
		TaskID:   taskID,
		ResultID: resultID,
	})
}

// Result endpoints

// handleGetResult godoc
// @Summary      Get a stored scan result
// @Tags         Results
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Result ID"
// @Success      200  {object}  domain.BatchResult
// @Failure      404  {object}  ErrorResponse  "Result not found"
// @Router       /api/v1/results/{id} [get]
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.scanService.GetResult(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "result not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to load result")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleExportResult godoc
// @Summary      Export a stored scan result
// @Description  Renders a stored result as csv, json or html
// @Tags         Results
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "Result ID"
// @Param        format  path  string  true  "Export format"  Enums(csv, json, html)
// @Success      200  {string}  string  "Rendered report"
// @Failure      400  {object}  ErrorResponse  "Unknown format"
// @Failure      404  {object}  ErrorResponse  "Result not found"
// @Router       /api/v1/results/{id}/export/{format} [get]
func (s *Server) handleExportResult(w http.ResponseWriter, r *http.Request) {
	format := exporters.Format(r.PathValue("format"))
	contentType := format.ContentType()
	if contentType == "" {
		writeError(w, http.StatusBadRequest, "unknown export format")
		return
	}

	result, err := s.scanService.GetResult(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "result not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to load result")
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	if err := exporters.Export(w, format, result); err != nil {
		// Headers are already written; nothing useful left to send.
		return
	}
}

// Task endpoints

// handleGetTask godoc
// @Summary      Get a queued task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Router       /api/v1/tasks/{id} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.scanService.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
		} else {
			writeError(w, http.StatusInternalServerError, "failed to load task")
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Registry endpoints

// handleSearch godoc
// @Summary      Search the companies register
// @Tags         Registry
// @Produce      json
// @Security     BearerAuth
// @Param        q       query     string  true   "Search query"
// @Param        status  query     string  false  "Company status filter"
// @Param        limit   query     int     false  "Maximum results"  default(10)
// @Success      200    {array}   domain.CompanyRecord
// @Failure      400    {object}  ErrorResponse  "Missing query"
// @Router       /api/v1/companies/search [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	results, err := s.scanService.Search(r.Context(), query, r.URL.Query().Get("status"), limit)
	if err != nil {
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleRateLimit godoc
// @Summary      Registry rate limit status
// @Tags         Registry
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RateLimitStatus
// @Router       /api/v1/rate-limit [get]
func (s *Server) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scanService.RateLimit())
}

// Cache endpoints

// handleCachedCompanies godoc
// @Summary      List companies with cached scans
// @Tags         Cache
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]string
// @Router       /api/v1/cache/companies [get]
func (s *Server) handleCachedCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.scanService.CachedCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "cache unavailable")
		return
	}
	if companies == nil {
		companies = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"companies": companies})
}

// handleCachedScans godoc
// @Summary      List cached scan configurations for a company
// @Tags         Cache
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      string  true  "Company number"
// @Success      200     {object}  map[string][]string
// @Failure      400     {object}  ErrorResponse  "Invalid company number"
// @Router       /api/v1/cache/companies/{number} [get]
func (s *Server) handleCachedScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.scanService.CachedScans(r.Context(), r.PathValue("number"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid company number")
		} else {
			writeError(w, http.StatusBadGateway, "cache unavailable")
		}
		return
	}
	if scans == nil {
		scans = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"scans": scans})
}

// writeScanError maps scan-path domain errors to HTTP status codes.
func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrRateLimitExceeded):
		writeError(w, http.StatusTooManyRequests, "registry rate limit exhausted")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "registry unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
