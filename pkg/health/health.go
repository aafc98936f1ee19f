// Package health provides HTTP liveness and readiness probes for a
// headless arena process, aggregating per-component checks.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthCheck is one component's health probe.
type HealthCheck interface {
	// Name returns the unique name of this health check.
	Name() string
	// Check performs the health check and returns an error if unhealthy.
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated health of the process.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the health of one component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a health checker with no checks registered.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a health check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered checks. The overall status is
// "healthy" only if every individual check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler returns 200 whenever the process can serve requests.
// Orchestrators use it to decide whether to restart the process.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler runs every check and returns 200 when all pass, 503
// otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// MatchHealthCheck reports whether a match is actively ticking.
type MatchHealthCheck struct {
	running func() bool
}

// NewMatchHealthCheck creates a health check over the match loop.
func NewMatchHealthCheck(running func() bool) *MatchHealthCheck {
	return &MatchHealthCheck{running: running}
}

// Name returns the name of this health check.
func (m *MatchHealthCheck) Name() string {
	return "match"
}

// Check verifies the match loop is running.
func (m *MatchHealthCheck) Check(ctx context.Context) error {
	if !m.running() {
		return fmt.Errorf("match is not running")
	}
	return nil
}

// AgentsHealthCheck reports whether any agents remain in the match. A
// running match with zero agents means every actor was retired, usually
// a sign of systemic stalls rather than normal combat attrition.
type AgentsHealthCheck struct {
	liveAgents func() int
}

// NewAgentsHealthCheck creates a health check over agent population.
func NewAgentsHealthCheck(liveAgents func() int) *AgentsHealthCheck {
	return &AgentsHealthCheck{liveAgents: liveAgents}
}

// Name returns the name of this health check.
func (a *AgentsHealthCheck) Name() string {
	return "agents"
}

// Check verifies at least one agent is alive.
func (a *AgentsHealthCheck) Check(ctx context.Context) error {
	if a.liveAgents() == 0 {
		return fmt.Errorf("no live agents in the match")
	}
	return nil
}

// MemoryHealthCheck verifies process memory stays under a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within the configured limit.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
