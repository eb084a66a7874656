// Package remote builds the HTTP client shared by the adapters that talk to
// the external releases and auth backends.
package remote

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

// Authenticated reports whether client-credentials are configured.
func (c Config) Authenticated() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.TokenURL != ""
}

// NewHTTPClient returns a client with the configured timeout. When
// client-credentials are set, every request carries a bearer token that is
// fetched and refreshed through the token endpoint.
func NewHTTPClient(ctx context.Context, cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := &http.Client{Timeout: timeout}
	if !cfg.Authenticated() {
		return base
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	client := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	client.Timeout = timeout
	return client
}
