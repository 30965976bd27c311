package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odo-hq/expensys/internal/domain"
	"github.com/odo-hq/expensys/pkg/util"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeRecoversIssuedClaims(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, expiresAt, err := issuer.Issue("alice", domain.RoleManager)
	require.NoError(t, err)

	claims, err := NewUnverifiedDecoder().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleManager, claims.Role)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestDecodeIgnoresSignature(t *testing.T) {
	// The decoder is structural only: a token signed with an unknown secret
	// still decodes. The backend is the authority that rejects it.
	token, _, err := NewIssuer("some-other-secret", time.Hour).Issue("bob", domain.RoleEmployee)
	require.NoError(t, err)

	claims, err := NewUnverifiedDecoder().Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
}

func TestDecodeMalformed(t *testing.T) {
	decoder := NewUnverifiedDecoder()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "justonechunk"},
		{"two segments", "aGVhZGVy.cGF5bG9hZA"},
		{"garbage payload", "eyJhbGciOiJIUzI1NiJ9.!!!notbase64!!!.sig"},
		{"four segments", "a.b.c.d"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decoder.Decode(tc.token)
			require.Error(t, err)
			assert.True(t, util.HasCode(err, util.CodeTokenMalformed), "got %v", err)
		})
	}
}

func TestDecodeMissingClaims(t *testing.T) {
	decoder := NewUnverifiedDecoder()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"no role", jwt.MapClaims{"sub": "bob", "exp": jwt.NewNumericDate(time.Now().Add(time.Hour))}},
		{"no subject", jwt.MapClaims{"role": "employee"}},
		{"empty role", jwt.MapClaims{"sub": "bob", "role": ""}},
		{"role outside enumeration", jwt.MapClaims{"sub": "bob", "role": "superuser"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decoder.Decode(signToken(t, tc.claims))
			require.Error(t, err)
			assert.True(t, util.HasCode(err, util.CodeTokenMissingClaim), "got %v", err)
		})
	}
}

func TestDecodeWithoutExpiry(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "bob", "role": "employee"})

	claims, err := NewUnverifiedDecoder().Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestIssuerVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, _, err := issuer.Issue("carol", domain.RoleAdmin)
	require.NoError(t, err)

	subject, role, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "carol", subject)
	assert.Equal(t, domain.RoleAdmin, role)

	_, _, err = NewIssuer("wrong-secret", time.Hour).Verify(token)
	assert.Error(t, err)
}
