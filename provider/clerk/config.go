package clerk

import (
	"fmt"
	"strings"
	"time"
)

// Config holds Clerk configuration for token validation.
type Config struct {
	// Issuer is the Clerk frontend API origin, e.g.
	// "https://example.clerk.accounts.dev". Tokens whose iss claim does
	// not match are rejected.
	Issuer string

	// JWKSURL overrides the JWK Set endpoint (optional).
	// Default: "{Issuer}/.well-known/jwks.json".
	JWKSURL string

	// RefreshInterval is how often to refresh the JWK Set in the
	// background. Default: 1 hour.
	RefreshInterval time.Duration

	// DefaultRole is assigned when a token carries no role metadata
	// (optional). Leave empty to reject role-less tokens at the
	// authorization layer instead.
	DefaultRole string
}

func (c Config) issuer() string {
	return strings.TrimSuffix(strings.TrimSpace(c.Issuer), "/")
}

func (c Config) jwksURL() (string, error) {
	if u := strings.TrimSpace(c.JWKSURL); u != "" {
		return u, nil
	}

	issuer := c.issuer()
	if issuer == "" {
		return "", fmt.Errorf("clerk: issuer is required")
	}

	return fmt.Sprintf("%s/.well-known/jwks.json", issuer), nil
}
