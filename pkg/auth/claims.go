package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminClaims is the signed payload of an admin session token. The admin id is
// carried both as the legacy "id" claim and as the registered subject.
type AdminClaims struct {
	AdminID uuid.UUID `json:"id"`
	jwt.RegisteredClaims
}
