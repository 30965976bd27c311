package auth

import (
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/odo-hq/expensys/internal/domain"
	"github.com/odo-hq/expensys/pkg/util"
)

// TokenDecoder extracts claims from a bearer token.
//
// The default implementation decodes without verifying signature or expiry:
// the backend re-validates the token on every request, so the client-side
// claims are a rendering hint, never an authorization decision. Swapping in a
// verifying decoder only requires satisfying this interface.
type TokenDecoder interface {
	Decode(token string) (*domain.Claims, error)
}

// UnverifiedDecoder parses JWT structure and payload only.
type UnverifiedDecoder struct {
	parser *jwt.Parser
}

// NewUnverifiedDecoder builds the decoder.
func NewUnverifiedDecoder() *UnverifiedDecoder {
	return &UnverifiedDecoder{parser: jwt.NewParser()}
}

// Decode splits the token, base64-decodes the payload segment and maps the
// issuer's claim names onto the Claims type.
func (d *UnverifiedDecoder) Decode(token string) (*domain.Claims, error) {
	payload := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, payload); err != nil {
		return nil, util.NewTokenMalformed(err)
	}

	subject, err := payload.GetSubject()
	if err != nil || subject == "" {
		return nil, util.NewTokenMissingClaim("sub")
	}

	rawRole, ok := payload["role"].(string)
	if !ok || rawRole == "" {
		return nil, util.NewTokenMissingClaim("role")
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		// A role outside the enumeration is as unusable as a missing one.
		return nil, util.NewTokenMissingClaim("role")
	}

	claims := &domain.Claims{Subject: subject, Role: role}
	if exp, err := payload.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
