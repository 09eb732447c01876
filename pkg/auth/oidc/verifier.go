// Package oidc verifies Google ID tokens presented by staff signing in with
// their Google account.
package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/laundry-backend/pkg/config"
	gooidc "github.com/coreos/go-oidc/v3/oidc"
)

// Identity is the subset of ID-token claims the login flow needs.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// NewVerifier discovers the provider's keys from its issuer URL.
func NewVerifier(ctx context.Context, cfg config.OIDCConfig) (*Verifier, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("oidc client id is required")
	}
	provider, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID})}, nil
}

// NewStaticVerifier checks tokens against a fixed key set.
func NewStaticVerifier(issuer, clientID string, keys gooidc.KeySet) *Verifier {
	return &Verifier{verifier: gooidc.NewVerifier(issuer, keys, &gooidc.Config{ClientID: clientID})}
}

// Verify checks signature, audience, issuer and expiry and returns the identity.
func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	if v == nil || v.verifier == nil {
		return nil, fmt.Errorf("oidc verifier not configured")
	}
	if strings.TrimSpace(rawIDToken) == "" {
		return nil, fmt.Errorf("id token is required")
	}
	token, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decoding id token claims: %w", err)
	}
	return &Identity{
		Subject:       token.Subject,
		Email:         strings.ToLower(strings.TrimSpace(claims.Email)),
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
