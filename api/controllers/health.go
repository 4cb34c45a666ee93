package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kylethumm90/solar-review-hub-sub000/api/responses"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/config"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/redis"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/storage/gcs"
)

const readyProbeTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SolarGrade-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes each wired dependency. Optional dependencies (gcs) are
// skipped when nil so local setups without credentials still report ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SolarGrade-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		probe := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness probe failed: "+name, err)
				}
				return
			}
			checks[name] = "up"
		}

		if dbP != nil {
			probe("db", dbP.Ping)
		}
		if redisP != nil {
			probe("redis", redisP.Ping)
		}
		if gcsP != nil {
			probe("gcs", gcsP.Ping)
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
