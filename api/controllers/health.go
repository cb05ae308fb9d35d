package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/moviereview-backend/api/responses"
	"github.com/angelmondragon/moviereview-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/moviereview-backend/pkg/errors"
	"github.com/angelmondragon/moviereview-backend/pkg/logger"
)

const envHeader = "X-MovieReview-Env"

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, redis. Redis failures degrade rather than fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}

		status := map[string]string{"status": "ready", "database": "ok"}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis ping failed")
				status["cache"] = "degraded"
			} else {
				status["cache"] = "ok"
			}
		} else {
			status["cache"] = "disabled"
		}
		responses.WriteSuccess(w, status)
	}
}
