package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed lifetime of an admin session token.
const TokenTTL = 24 * time.Hour

var jwtSigningMethod = jwt.SigningMethodHS256

var (
	// ErrMissingToken means no credential was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers bad signatures, malformed input, wrong issuer and expiry.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is an ErrInvalidToken kept distinct for logging.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// IssueAdminToken signs a token for adminID that expires exactly TokenTTL after now.
func IssueAdminToken(cfg config.JWTConfig, now time.Time, adminID uuid.UUID) (string, time.Time, error) {
	if cfg.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret is required")
	}
	if adminID == uuid.Nil {
		return "", time.Time{}, fmt.Errorf("admin id is required")
	}

	expiresAt := now.Add(TokenTTL)
	claims := AdminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing jwt: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAdminToken validates tokenString against the configured secret and issuer.
// Every failure wraps ErrInvalidToken; expiry additionally wraps ErrTokenExpired.
func ParseAdminToken(cfg config.JWTConfig, tokenString string) (*AdminClaims, error) {
	return parseAdminToken(cfg, tokenString, time.Now)
}

func parseAdminToken(cfg config.JWTConfig, tokenString string, now func() time.Time) (*AdminClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.AdminID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing admin id", ErrInvalidToken)
	}

	return claims, nil
}
