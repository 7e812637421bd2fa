package clerk

import (
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	hub "github.com/jobpromax/progress-hub"
)

// TokenValidator validates Clerk-issued JWTs using the tenant JWK Set.
type TokenValidator struct {
	config Config
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
}

// NewTokenValidator fetches the JWK Set and returns a validator that keeps
// it refreshed in the background.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	jwksURL, err := cfg.jwksURL()
	if err != nil {
		return nil, err
	}

	refresh := cfg.RefreshInterval
	if refresh == 0 {
		refresh = time.Hour
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   refresh,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to refresh clerk JWK Set: %s", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("clerk: failed to get JWK Set: %w", err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
	}
	if issuer := cfg.issuer(); issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &TokenValidator{
		config: cfg,
		jwks:   jwks,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Validate implements hub.TokenValidator.
func (v *TokenValidator) Validate(tokenString string) (hub.AuthClaims, error) {
	claims := &sessionClaims{}

	token, err := v.parser.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc)
	if err != nil {
		return nil, normalizeValidationError(err)
	}

	if !token.Valid {
		return nil, hub.ErrTokenMalformed
	}

	return v.mapClaims(claims), nil
}

// Shutdown stops the background JWK Set refresh.
func (v *TokenValidator) Shutdown() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// sessionClaims is the Clerk session token payload. Email and role arrive
// either as top-level claims (via a JWT template) or under public_metadata.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email          string         `json:"email,omitempty"`
	Role           string         `json:"role,omitempty"`
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
}

func (v *TokenValidator) mapClaims(claims *sessionClaims) hub.AuthClaims {
	role := claims.Role
	if role == "" {
		role = metadataString(claims.PublicMetadata, "role")
	}
	if role == "" {
		role = v.config.DefaultRole
	}

	email := claims.Email
	if email == "" {
		email = metadataString(claims.PublicMetadata, "email")
	}

	return &hub.JWTClaims{
		RegisteredClaims: claims.RegisteredClaims,
		UID:              claims.RegisteredClaims.Subject,
		UserRole:         hub.UserRole(role),
		UserEmail:        email,
	}
}

func metadataString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	if val, ok := metadata[key].(string); ok {
		return val
	}
	return ""
}

func normalizeValidationError(err error) error {
	if err == nil {
		return nil
	}

	clone := hub.ErrTokenMalformed.Clone()
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		clone = hub.ErrTokenExpired.Clone()
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "clerk",
		"cause":    err.Error(),
	})
}
