package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/provisionhq/procurehub-backend/api/responses"
	"github.com/provisionhq/procurehub-backend/pkg/config"
	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	pkgredis "github.com/provisionhq/procurehub-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness with no dependency checks.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

// HealthReady verifies the backing dependencies answer within the readiness
// window.
func HealthReady(cfg *config.Config, logg *logger.Logger, db dbpkg.Pinger, cache pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if db != nil {
			checks["database"] = "ok"
			if err := db.Ping(ctx); err != nil {
				checks["database"] = err.Error()
				healthy = false
			}
		}
		if cache != nil {
			checks["redis"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{"checks": checks}), "readiness degraded")
			}
		}

		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}

// Ping answers on the authenticated surface.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "pong"})
	}
}
