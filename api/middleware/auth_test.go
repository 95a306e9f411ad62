package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/angelmondragon/timbermill-backend/pkg/auth"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
)

func okHandler(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = AdminIDFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "timbermill"}
	handler := Auth(cfg, nil)(okHandler(nil))

	for _, header := range []string{"", "   ", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		require.Equal(t, http.StatusUnauthorized, resp.Code, "header %q", header)
		assert.JSONEq(t, `{"message":"No token provided"}`, resp.Body.String())
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "timbermill"}
	handler := Auth(cfg, nil)(okHandler(nil))

	otherSecret, _, err := pkgAuth.IssueAdminToken(config.JWTConfig{Secret: "other", Issuer: "timbermill"}, time.Now(), uuid.New())
	require.NoError(t, err)
	expired, _, err := pkgAuth.IssueAdminToken(cfg, time.Now().Add(-48*time.Hour), uuid.New())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": otherSecret,
		"expired":      expired,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		require.Equal(t, http.StatusUnauthorized, resp.Code, name)
		assert.JSONEq(t, `{"message":"Invalid token"}`, resp.Body.String(), name)
	}
}

func TestAuthAcceptsRawAndBearerToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "timbermill"}
	adminID := uuid.New()
	token, _, err := pkgAuth.IssueAdminToken(cfg, time.Now(), adminID)
	require.NoError(t, err)

	for _, header := range []string{token, "Bearer " + token, "bearer " + token} {
		var captured string
		handler := Auth(cfg, nil)(okHandler(&captured))

		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, adminID.String(), captured)
	}
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", tokenFromHeader(" abc "))
	assert.Equal(t, "abc", tokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", tokenFromHeader("BEARER   abc"))
	assert.Equal(t, "", tokenFromHeader("Bearer"))
	assert.Equal(t, "", tokenFromHeader(""))
}
