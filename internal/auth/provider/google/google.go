package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"identity-service/internal/auth"
	"identity-service/internal/auth/provider"
	"identity-service/internal/logger"
)

const providerName = "google"

type Provider struct {
	oauthConfig     *oauth2.Config
	verifier        *oidc.IDTokenVerifier
	exchangeTimeout time.Duration
}

func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
	exchangeTimeout time.Duration,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig:     oauthCfg,
		verifier:        verifier,
		exchangeTimeout: exchangeTimeout,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code against Google and
// returns the verified identity. The whole exchange runs under a
// deadline so a stalled provider fails the handshake instead of
// holding the request open.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	if p.exchangeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.exchangeTimeout)
		defer cancel()
	}

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: google token exchange: %v", provider.ErrExchange, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google did not return id_token", provider.ErrExchange)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: google id_token verification: %v", provider.ErrExchange, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: google id_token claims parse: %v", provider.ErrExchange, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: google id_token missing required claims", provider.ErrExchange)
	}

	logger.Info("google oidc verified", map[string]any{
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"audience":       idToken.Audience,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
	}, nil
}
