package controllers

import (
	"net/http"

	"github.com/angelmondragon/timbermill-backend/api/responses"
	"github.com/angelmondragon/timbermill-backend/internal/analytics"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
)

// AnalyticsSummary is recomputed on every call.
func AnalyticsSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		responses.WriteSuccess(w, summary)
	}
}
