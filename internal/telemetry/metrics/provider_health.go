package metrics

import (
	"sync"
	"time"
)

// ProviderHealth tracks rolling request outcomes for one data provider.
// It backs the /health endpoint and the providers' degraded-state logic.
type ProviderHealth struct {
	name string

	mu             sync.RWMutex
	totalRequests  int64
	failedRequests int64
	avgLatencyMS   float64
	lastRequestAt  time.Time
	degraded       bool
	degradedReason string
}

// NewProviderHealth creates a health tracker for the named provider.
func NewProviderHealth(name string) *ProviderHealth {
	return &ProviderHealth{name: name}
}

// RecordRequest records one request outcome and its latency. Latency is
// folded into an exponential moving average.
func (h *ProviderHealth) RecordRequest(success bool, duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests++
	if !success {
		h.failedRequests++
	} else {
		// A successful request clears any previous degraded flag.
		h.degraded = false
		h.degradedReason = ""
	}
	h.lastRequestAt = time.Now()

	latencyMS := float64(duration.Milliseconds())
	if h.avgLatencyMS == 0 {
		h.avgLatencyMS = latencyMS
	} else {
		h.avgLatencyMS = 0.9*h.avgLatencyMS + 0.1*latencyMS
	}
}

// SetDegraded marks the provider degraded with a reason, or clears it.
func (h *ProviderHealth) SetDegraded(degraded bool, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.degraded = degraded
	h.degradedReason = reason
}

// IsHealthy reports whether the provider is usable: not degraded and
// with a success rate above 50% over its lifetime.
func (h *ProviderHealth) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.degraded {
		return false
	}
	if h.totalRequests == 0 {
		return true
	}
	return float64(h.totalRequests-h.failedRequests)/float64(h.totalRequests) > 0.5
}

// HealthStatus is a point-in-time health snapshot for reporting.
type HealthStatus struct {
	Provider       string    `json:"provider"`
	Healthy        bool      `json:"healthy"`
	TotalRequests  int64     `json:"total_requests"`
	FailedRequests int64     `json:"failed_requests"`
	AvgLatencyMS   float64   `json:"avg_latency_ms"`
	LastRequestAt  time.Time `json:"last_request_at,omitempty"`
	Degraded       bool      `json:"degraded"`
	DegradedReason string    `json:"degraded_reason,omitempty"`
}

// Status returns the current health snapshot.
func (h *ProviderHealth) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HealthStatus{
		Provider:       h.name,
		Healthy:        !h.degraded && (h.totalRequests == 0 || float64(h.totalRequests-h.failedRequests)/float64(h.totalRequests) > 0.5),
		TotalRequests:  h.totalRequests,
		FailedRequests: h.failedRequests,
		AvgLatencyMS:   h.avgLatencyMS,
		LastRequestAt:  h.lastRequestAt,
		Degraded:       h.degraded,
		DegradedReason: h.degradedReason,
	}
}
