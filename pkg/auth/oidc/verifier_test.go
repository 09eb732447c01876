package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://accounts.example.test"
	testClientID = "laundry-web"
)

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func baseClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testClientID,
		"sub":            "10442",
		"email":          "Sari@Example.com",
		"email_verified": true,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func TestVerifyAcceptsSignedToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewStaticVerifier(testIssuer, testClientID, &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}})

	identity, err := v.Verify(context.Background(), signIDToken(t, key, baseClaims(time.Now())))
	require.NoError(t, err)
	require.Equal(t, "sari@example.com", identity.Email)
	require.True(t, identity.EmailVerified)
	require.Equal(t, "10442", identity.Subject)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewStaticVerifier(testIssuer, testClientID, &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}})
	ctx := context.Background()

	_, err = v.Verify(ctx, signIDToken(t, other, baseClaims(time.Now())))
	require.Error(t, err)

	wrongAudience := baseClaims(time.Now())
	wrongAudience["aud"] = "someone-else"
	_, err = v.Verify(ctx, signIDToken(t, key, wrongAudience))
	require.Error(t, err)

	expired := baseClaims(time.Now().Add(-3 * time.Hour))
	_, err = v.Verify(ctx, signIDToken(t, key, expired))
	require.Error(t, err)

	_, err = v.Verify(ctx, " ")
	require.Error(t, err)
}
