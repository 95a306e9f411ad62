package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/timbermill-backend/api/responses"
	pkgAuth "github.com/angelmondragon/timbermill-backend/pkg/auth"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
)

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid token"
)

// Auth gates admin routes. The Authorization header carries the raw token;
// a "Bearer " prefix is tolerated.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromHeader(r.Header.Get("Authorization"))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, msgNoToken))
				return
			}

			claims, err := pkgAuth.ParseAdminToken(cfg, token)
			if err != nil {
				ctx := r.Context()
				if logg != nil {
					reason := "invalid"
					if errors.Is(err, pkgAuth.ErrTokenExpired) {
						reason = "expired"
					}
					ctx = logg.WithField(ctx, "auth_failure", reason)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgInvalidToken))
				return
			}

			adminID := claims.AdminID.String()
			ctx := WithAdminID(r.Context(), adminID)
			if logg != nil {
				ctx = logg.WithAdminID(ctx, adminID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(raw string) string {
	token := strings.TrimSpace(raw)
	if strings.EqualFold(token, "bearer") {
		return ""
	}
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
