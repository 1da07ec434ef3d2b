// Package googleauth wraps the Google sign-in handshake: consent URL,
// authorization-code exchange, and the verified userinfo lookup.
package googleauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// UserInfo is the identity assertion handed to identity resolution.
type UserInfo struct {
	Email         string
	EmailVerified bool
	GivenName     string
}

type Provider interface {
	AuthCodeURL(state string) string
	FetchUser(ctx context.Context, code string) (*UserInfo, error)
}

type googleProvider struct {
	cfg *oauth2.Config
}

func New(clientID, clientSecret, baseURL string) Provider {
	return &googleProvider{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  baseURL + "/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *googleProvider) FetchUser(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(p.cfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	verified := info.VerifiedEmail != nil && *info.VerifiedEmail
	return &UserInfo{
		Email:         info.Email,
		EmailVerified: verified,
		GivenName:     info.GivenName,
	}, nil
}
