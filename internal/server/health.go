package server

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp   ComponentStatus = "up"
	ComponentStatusDown ComponentStatus = "down"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms"`
}

// HandleHealth reports whether uploads can currently succeed. A missing or
// read-only storage directory is unhealthy (503); a missing static root only
// degrades the service.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth()

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, health)
}

func (s *Server) checkHealth() Health {
	health := Health{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now().UTC(),
		Version:    s.cfg.Build.Version,
		Components: make(map[string]ComponentHealth),
	}

	storage := timedCheck(func() error { return checkWritableDir(s.cfg.StorageDir) })
	health.Components["storage"] = storage

	static := timedCheck(func() error { return checkDir(s.cfg.StaticRoot) })
	health.Components["static_root"] = static

	switch {
	case storage.Status == ComponentStatusDown:
		health.Status = HealthStatusUnhealthy
	case static.Status == ComponentStatusDown:
		health.Status = HealthStatusDegraded
	}

	return health
}

func timedCheck(check func() error) ComponentHealth {
	start := time.Now()
	err := check()
	latency := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		return ComponentHealth{Status: ComponentStatusDown, Message: err.Error(), LatencyMs: latency}
	}
	return ComponentHealth{Status: ComponentStatusUp, LatencyMs: latency}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// checkWritableDir probes dir with a short-lived dotfile. The probe name has
// no image extension, so a concurrent listing never reports it.
func checkWritableDir(dir string) error {
	if err := checkDir(dir); err != nil {
		return err
	}

	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
