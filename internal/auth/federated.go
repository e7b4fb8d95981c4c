package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/reelbase/backend/internal/config"
	"github.com/reelbase/backend/internal/models"
)

// ErrProviderNotConfigured indicates the requested federated provider has no
// issuer configured.
var ErrProviderNotConfigured = errors.New("federated provider not configured")

// FederatedIdentity is the verified identity extracted from a provider-issued
// ID token.
type FederatedIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// FederatedVerifier validates ID tokens minted by federated identity
// providers.
type FederatedVerifier interface {
	Verify(ctx context.Context, provider, rawIDToken string) (FederatedIdentity, error)
}

// OIDCVerifier verifies ID tokens against the configured OIDC providers.
type OIDCVerifier struct {
	verifiers map[string]*oidc.IDTokenVerifier
}

// NewOIDCVerifier performs discovery for every configured provider. Providers
// without an issuer are skipped so local setups can run password-only.
func NewOIDCVerifier(ctx context.Context, cfg config.FederatedConfig) (*OIDCVerifier, error) {
	verifiers := make(map[string]*oidc.IDTokenVerifier)

	providers := map[string]config.FederatedProviderConfig{
		models.ProviderGoogle:   cfg.Google,
		models.ProviderFacebook: cfg.Facebook,
	}

	for name, providerCfg := range providers {
		if providerCfg.Issuer == "" {
			continue
		}
		provider, err := oidc.NewProvider(ctx, providerCfg.Issuer)
		if err != nil {
			return nil, fmt.Errorf("discover %s provider: %w", name, err)
		}
		verifiers[name] = provider.Verifier(&oidc.Config{ClientID: providerCfg.ClientID})
	}

	return &OIDCVerifier{verifiers: verifiers}, nil
}

// Verify checks the raw ID token against the named provider and extracts the
// profile claims.
func (v *OIDCVerifier) Verify(ctx context.Context, provider, rawIDToken string) (FederatedIdentity, error) {
	verifier, ok := v.verifiers[provider]
	if !ok {
		return FederatedIdentity{}, fmt.Errorf("%w: %s", ErrProviderNotConfigured, provider)
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return FederatedIdentity{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return FederatedIdentity{}, fmt.Errorf("parse id token claims: %w", err)
	}

	return FederatedIdentity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
