package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	responder
	database Pinger
	redis    Pinger
}

func NewHealthHandler(database, redis Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		responder: responder{logger: logger},
		database:  database,
		redis:     redis,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type readyResponse struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "api"})
}

// Ready answers 200 only when both Postgres and Redis respond.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]bool{
		"database": h.check(ctx, "database", h.database),
		"redis":    h.check(ctx, "redis", h.redis),
	}

	if checks["database"] && checks["redis"] {
		h.respondJSON(w, http.StatusOK, readyResponse{Status: "ready", Checks: checks})
		return
	}
	h.respondJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "not ready", Checks: checks})
}

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) bool {
	if p == nil {
		return false
	}
	if err := p.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}
