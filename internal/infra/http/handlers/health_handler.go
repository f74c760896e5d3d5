package handlers

import (
	"context"
	"net/http"
	"time"
)

const Version = "1.0.0"

// Check devolve nil quando a dependência está saudável.
type Check func(ctx context.Context) error

type HealthHandler struct {
	// Checks com valor nil aparecem como "not configured"
	Checks    map[string]Check
	StartTime time.Time
}

type HealthResponse struct {
	Success      bool              `json:"success"`
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{Checks: checks, StartTime: time.Now()}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.Checks))
	status := "online"
	for name, check := range h.Checks {
		if check == nil {
			deps[name] = "not configured"
			continue
		}
		if err := check(ctx); err != nil {
			deps[name] = "unhealthy: " + err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "healthy"
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, envelope{
		"success":      status == "online",
		"status":       status,
		"version":      Version,
		"uptime":       time.Since(h.StartTime).Round(time.Second).String(),
		"timestamp":    time.Now().UTC(),
		"dependencies": deps,
	})
}
