// Package monitor tracks background-job health for the health endpoint.
package monitor

import (
	"sync"
	"time"
)

// staleAfter marks the retention job unhealthy when it has not succeeded
// within two scheduled intervals.
const staleAfter = 48 * time.Hour

// RetentionMonitor tracks retention-cleanup health and failures.
type RetentionMonitor struct {
	mu                sync.RWMutex
	lastSuccess       time.Time
	lastAttempt       time.Time
	consecutiveErrors int
	lastError         string
}

// RecordSuccess records a successful cleanup pass.
func (rm *RetentionMonitor) RecordSuccess() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.lastSuccess = time.Now()
	rm.lastAttempt = time.Now()
	rm.consecutiveErrors = 0
	rm.lastError = ""
}

// RecordFailure records a failed cleanup pass.
func (rm *RetentionMonitor) RecordFailure(err error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.lastAttempt = time.Now()
	rm.consecutiveErrors++
	if err != nil {
		rm.lastError = err.Error()
	}
}

// IsHealthy returns true if retention cleanup is working properly.
// Unhealthy conditions:
//   - Never succeeded
//   - Haven't succeeded within two scheduled runs
//   - More than 3 consecutive failures
func (rm *RetentionMonitor) IsHealthy() bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.healthyLocked()
}

func (rm *RetentionMonitor) healthyLocked() bool {
	if rm.lastSuccess.IsZero() {
		return false
	}
	if time.Since(rm.lastSuccess) > staleAfter {
		return false
	}
	if rm.consecutiveErrors > 3 {
		return false
	}
	return true
}

// RetentionStatus is the health-endpoint view of the retention job.
type RetentionStatus struct {
	Healthy           bool   `json:"healthy"`
	LastSuccess       string `json:"last_success,omitempty"`
	TimeSinceSuccess  string `json:"time_since_success,omitempty"`
	LastAttempt       string `json:"last_attempt,omitempty"`
	ConsecutiveErrors int    `json:"consecutive_errors,omitempty"`
	LastError         string `json:"last_error,omitempty"`
}

// Status returns the current retention-job status.
func (rm *RetentionMonitor) Status() RetentionStatus {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	status := RetentionStatus{
		Healthy: rm.healthyLocked(),
	}

	if !rm.lastSuccess.IsZero() {
		status.LastSuccess = rm.lastSuccess.Format(time.RFC3339)
		status.TimeSinceSuccess = time.Since(rm.lastSuccess).String()
	}
	if !rm.lastAttempt.IsZero() {
		status.LastAttempt = rm.lastAttempt.Format(time.RFC3339)
	}
	if rm.consecutiveErrors > 0 {
		status.ConsecutiveErrors = rm.consecutiveErrors
		status.LastError = rm.lastError
	}
	return status
}
