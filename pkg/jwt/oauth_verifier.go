package jwt

import (
	"FoodShare/domain"
	"FoodShare/internal/utils"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type (
	// OAuthVerifier checks identity tokens issued by an external provider.
	OAuthVerifier interface {
		Verify(provider string, idToken string) (domain.OAuthIdentity, error)
	}

	googleClaims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		jwt.RegisteredClaims
	}

	googleVerifier struct {
		publicKey *rsa.PublicKey
		audience  string
		issuer    string
	}
)

func NewOAuthVerifier() (OAuthVerifier, error) {
	return NewGoogleVerifier(
		utils.GetConfig("OAUTH_GOOGLE_PUBLIC_KEY"),
		utils.GetConfig("OAUTH_GOOGLE_AUDIENCE"),
		utils.GetConfig("OAUTH_GOOGLE_ISSUER"),
	)
}

// NewGoogleVerifier verifies RS256 ID tokens against a PEM encoded key.
// An empty key yields a verifier that rejects every token.
func NewGoogleVerifier(pemKey, audience, issuer string) (OAuthVerifier, error) {
	v := &googleVerifier{audience: audience, issuer: issuer}
	if strings.TrimSpace(pemKey) == "" {
		return v, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse oauth public key: %w", err)
	}
	v.publicKey = key
	return v, nil
}

func (g *googleVerifier) keyFunc(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return g.publicKey, nil
}

func sameIssuer(a, b string) bool {
	return strings.TrimPrefix(a, "https://") == strings.TrimPrefix(b, "https://")
}

func (g *googleVerifier) Verify(provider string, idToken string) (domain.OAuthIdentity, error) {
	if provider != domain.ProviderGoogle || g.publicKey == nil {
		return domain.OAuthIdentity{}, domain.ErrOAuthUnsupported
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, g.keyFunc)
	if err != nil || !token.Valid {
		return domain.OAuthIdentity{}, domain.ErrOAuthTokenInvalid
	}
	if g.audience != "" && !claims.VerifyAudience(g.audience, true) {
		return domain.OAuthIdentity{}, domain.ErrOAuthTokenInvalid
	}
	if g.issuer != "" && !sameIssuer(claims.Issuer, g.issuer) {
		return domain.OAuthIdentity{}, domain.ErrOAuthTokenInvalid
	}
	if claims.Subject == "" || claims.Email == "" {
		return domain.OAuthIdentity{}, domain.ErrOAuthTokenInvalid
	}

	return domain.OAuthIdentity{
		Provider:    domain.ProviderGoogle,
		Subject:     claims.Subject,
		Email:       strings.ToLower(claims.Email),
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}
