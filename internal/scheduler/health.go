package scheduler

import (
	"sync"
	"time"
)

// HealthStatus is the last known state of a component.
type HealthStatus struct {
	Healthy     bool      `json:"healthy"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastError   error     `json:"-"`
	Message     string    `json:"message"`
}

// Health tracks the health of the store, the generator and the daily run.
type Health struct {
	mu         sync.RWMutex
	now        func() time.Time
	components map[string]HealthStatus
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return &Health{
		now:        time.Now,
		components: make(map[string]HealthStatus),
	}
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.components[component] = HealthStatus{
		Healthy:     true,
		LastCheck:   now,
		LastSuccess: now,
		Message:     message,
	}
}

// SetUnhealthy marks a component as unhealthy. LastSuccess is preserved.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.components[component]
	status.Healthy = false
	status.LastCheck = h.now()
	status.LastError = err
	status.Message = err.Error()
	h.components[component] = status
}

// GetStatus returns the status of a component, or nil if it never reported.
func (h *Health) GetStatus(component string) *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.components[component]
	if !ok {
		return nil
	}
	return &status
}

// GetAllStatuses returns a snapshot of every component.
func (h *Health) GetAllStatuses() map[string]HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]HealthStatus, len(h.components))
	for name, status := range h.components {
		result[name] = status
	}
	return result
}

// IsOverallHealthy returns true if all components are healthy.
func (h *Health) IsOverallHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, status := range h.components {
		if !status.Healthy {
			return false
		}
	}
	return true
}
