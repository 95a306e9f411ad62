package controllers

import (
	"net/http"

	"github.com/angelmondragon/timbermill-backend/api/responses"
	"github.com/angelmondragon/timbermill-backend/api/validators"
	"github.com/angelmondragon/timbermill-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
)

// AdminLogin exchanges admin credentials for a signed session token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		responses.WriteSuccess(w, result)
	}
}
