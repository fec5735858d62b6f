package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/atelierliu/renoquote-backend/api/responses"
	"github.com/atelierliu/renoquote-backend/pkg/config"
	"github.com/atelierliu/renoquote-backend/pkg/logger"
)

const envHeader = "X-RenoQuote-Env"

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks each wired dependency with a short deadline. A failing
// dependency flips the payload to 503 while still naming the healthy ones.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		statuses := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "unavailable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithFields(ctx, map[string]any{"dependency": name}), "health.ready.failed", err)
				}
				continue
			}
			statuses[name] = "ok"
		}

		payload := map[string]any{"status": "ready", "dependencies": statuses}
		if !healthy {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
