package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/timbermill-backend/api/responses"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type Pinger interface {
	Ping(context.Context) error
}

// ReadinessCheck names one dependency probed by HealthReady.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Timbermill-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every check and answers 503 when any of them fails.
// Checks with a nil pinger are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Timbermill-Env", cfg.App.Env)

		resp := readinessResponse{Status: "ready", Checks: map[string]string{}}
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := check.Pinger.Ping(ctx)
			cancel()
			if err != nil {
				resp.Status = "unavailable"
				resp.Checks[check.Name] = "error"
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "check", check.Name), "health.not_ready", err)
				}
				continue
			}
			resp.Checks[check.Name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ready" {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, resp)
	}
}
