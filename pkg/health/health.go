package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Checker checks the health of one dependency.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the JSON body of the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single health check.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu      sync.RWMutex
	checks  map[string]check
	timeout time.Duration
}

// NewHandler creates a new health check handler.
func NewHandler() *Handler {
	return &Handler{
		checks:  make(map[string]check),
		timeout: 3 * time.Second,
	}
}

// Register adds a critical checker. A failing critical check makes the
// service not ready.
func (h *Handler) Register(name string, fn Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, critical: true}
}

// RegisterNonCritical adds a checker whose failure only degrades readiness.
// The storefront uses it for the upstream catalog: when the catalog is down
// the pages still render their error state, so the pod stays in rotation.
func (h *Handler) RegisterNonCritical(name string, fn Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn}
}

// LivenessHandler always answers 200 while the process is running.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every registered check and answers 503 when a
// critical one fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

// Check runs all checks and aggregates the result.
func (h *Handler) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	checks := make(map[string]check, len(h.checks))
	for name, c := range h.checks {
		names = append(names, name)
		checks[name] = c
	}
	h.mu.RUnlock()
	sort.Strings(names)

	results := make(map[string]CheckResult, len(names))
	overall := StatusUp

	for _, name := range names {
		c := checks[name]
		if err := c.fn(ctx); err != nil {
			results[name] = CheckResult{Status: StatusDown, Critical: c.critical, Error: err.Error()}
			if c.critical {
				overall = StatusDown
			} else if overall == StatusUp {
				overall = StatusDegraded
			}
			continue
		}
		results[name] = CheckResult{Status: StatusUp, Critical: c.critical}
	}

	return Response{Status: overall, Timestamp: time.Now().UTC(), Checks: results}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
