package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nahicyan/Landivo-Auth0SPA/internal/config"
)

func newTestVerifier() *Verifier {
	return NewVerifier(&config.Auth{
		JWTSecret: "test-secret",
		Issuer:    "landivo-api",
		Namespace: "https://landivo.com",
	}, zap.NewNop())
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier()

	token, err := v.GenerateToken("user-1", "jordan@landivo.com", []string{"read:buyers"}, time.Hour)
	assert.NoError(t, err)

	user, err := v.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "jordan@landivo.com", user.Email)
	assert.Equal(t, []string{"read:buyers"}, user.Permissions)
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v := newTestVerifier()

	token, err := v.GenerateToken("user-1", "jordan@landivo.com", nil, -time.Hour)
	assert.NoError(t, err)

	_, err = v.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	other := NewVerifier(&config.Auth{
		JWTSecret: "different-secret",
		Issuer:    "landivo-api",
		Namespace: "https://landivo.com",
	}, zap.NewNop())

	token, err := other.GenerateToken("user-1", "jordan@landivo.com", nil, time.Hour)
	assert.NoError(t, err)

	_, err = newTestVerifier().Verify(token)
	assert.Error(t, err)
}

func TestVerifier_RejectsNonHMACAlgorithm(t *testing.T) {
	v := newTestVerifier()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = v.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_NamespacedRolesFallback(t *testing.T) {
	v := newTestVerifier()

	user := v.userFromClaims(jwt.MapClaims{
		"sub":                       "user-1",
		"https://landivo.com/roles": []interface{}{"admin"},
		"nickname":                  "jordan",
	})

	assert.Equal(t, []string{"admin"}, user.Permissions)
	assert.Equal(t, "jordan", user.Name)
}

func TestVerifier_PermissionsClaimWinsOverRoles(t *testing.T) {
	v := newTestVerifier()

	user := v.userFromClaims(jwt.MapClaims{
		"sub":                       "user-1",
		"permissions":               []interface{}{"read:buyers"},
		"https://landivo.com/roles": []interface{}{"admin"},
		"name":                      "Jordan Blake",
		"nickname":                  "jordan",
	})

	assert.Equal(t, []string{"read:buyers"}, user.Permissions)
	assert.Equal(t, "Jordan Blake", user.Name)
}

func TestUser_HasAny(t *testing.T) {
	user := &User{Permissions: []string{"read:buyers"}}

	assert.True(t, user.HasAny("read:buyers"))
	assert.True(t, user.HasAny("write:buyers", "read:buyers"))
	assert.False(t, user.HasAny("delete:buyers"))
	assert.False(t, user.HasAny())
}
