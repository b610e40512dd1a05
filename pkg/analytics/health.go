package analytics

import (
	"context"
)

// HealthStatus reports whether a full daily rollup can be computed and how
// long it took.
type HealthStatus struct {
	Healthy   bool   `json:"healthy"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck exercises a complete rollup computation for yesterday and
// reports its latency. Yesterday is used because its raw data is complete,
// so the check does not disturb today's in-progress rollup.
func (e *Engine) HealthCheck(ctx context.Context) HealthStatus {
	started := e.now()
	_, err := e.ProcessDay(ctx, e.yesterday())
	latency := e.now().Sub(started).Milliseconds()

	if err != nil {
		return HealthStatus{Healthy: false, LatencyMs: latency, Error: err.Error()}
	}
	return HealthStatus{Healthy: true, LatencyMs: latency}
}
