package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"FoodShare/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	svc := NewJWTServiceWithSecret("secret")
	token := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NotEmpty(t, token)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestUserTokenWrongSecret(t *testing.T) {
	token := NewJWTServiceWithSecret("a").GenerateTokenUser("user-1", domain.RoleUser)
	_, _, err := NewJWTServiceWithSecret("b").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestUserTokenExpired(t *testing.T) {
	svc := &jwtService{secretKey: "secret", issuer: "FOODSHARE", ttl: -time.Minute}
	token := svc.GenerateTokenUser("user-1", domain.RoleUser)
	_, _, err := svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func rsaPEM(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(block)
}

func signGoogle(t *testing.T, key *rsa.PrivateKey, claims googleClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() googleClaims {
	return googleClaims{
		Email:   "Student@Duke.edu",
		Name:    "Blue Devil",
		Picture: "https://example.com/p.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "google-sub-1",
			Issuer:    "accounts.google.com",
			Audience:  jwt.ClaimStrings{"foodshare-client"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestGoogleVerifier(t *testing.T) {
	key, pub := rsaPEM(t)
	v, err := NewGoogleVerifier(pub, "foodshare-client", "https://accounts.google.com")
	require.NoError(t, err)

	id, err := v.Verify(domain.ProviderGoogle, signGoogle(t, key, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", id.Subject)
	assert.Equal(t, "student@duke.edu", id.Email)
	assert.Equal(t, "Blue Devil", id.DisplayName)

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	_, err = v.Verify(domain.ProviderGoogle, signGoogle(t, key, wrongAud))
	assert.ErrorIs(t, err, domain.ErrOAuthTokenInvalid)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = v.Verify(domain.ProviderGoogle, signGoogle(t, key, expired))
	assert.ErrorIs(t, err, domain.ErrOAuthTokenInvalid)

	other, _ := rsaPEM(t)
	_, err = v.Verify(domain.ProviderGoogle, signGoogle(t, other, validClaims()))
	assert.ErrorIs(t, err, domain.ErrOAuthTokenInvalid)

	_, err = v.Verify("github", "x")
	assert.ErrorIs(t, err, domain.ErrOAuthUnsupported)
}

func TestGoogleVerifierDisabled(t *testing.T) {
	v, err := NewGoogleVerifier("", "", "")
	require.NoError(t, err)
	_, err = v.Verify(domain.ProviderGoogle, "token")
	assert.ErrorIs(t, err, domain.ErrOAuthUnsupported)

	_, err = NewGoogleVerifier("not a key", "", "")
	assert.Error(t, err)
}
