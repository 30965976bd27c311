package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/odo-hq/expensys/internal/domain"
)

// Issuer mints HS256 tokens with the backend's claim layout. The client core
// never signs tokens at runtime; the issuer backs the e2e fake backend and
// test fixtures that need freshly issued credentials.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an issuer with the given signing secret and token TTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue builds and signs a token for the subject.
func (i *Issuer) Issue(subject string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a token the way the backend does, returning its subject
// and role. Used by the fake backend's auth middleware.
func (i *Issuer) Verify(token string) (string, domain.Role, error) {
	payload := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, payload, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}

	subject, err := payload.GetSubject()
	if err != nil {
		return "", "", err
	}
	rawRole, _ := payload["role"].(string)
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	return subject, role, nil
}
