package hub

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is the concrete Config, built once at process start and passed
// by reference into everything that needs it. There is no ambient lookup
// after Load returns.
type Settings struct {
	SigningKey      string
	SigningMethod   string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	CookieName      string
	CookieSecure    bool
	Issuer          string

	ListenAddr     string
	DSN            string
	AllowedOrigins []string

	ClerkIssuer  string
	ClerkJWKSURL string
}

var _ Config = (*Settings)(nil)

// LoadSettings reads configuration from the environment, after loading a
// .env file when one is present. Missing keys fall back to development
// defaults except the signing secret, which has no safe default.
func LoadSettings() (*Settings, error) {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	signingKey := os.Getenv("HUB_SIGNING_KEY")
	if signingKey == "" {
		return nil, ErrNoEmptyString.WithMetadata(map[string]any{
			"key": "HUB_SIGNING_KEY",
		})
	}

	return &Settings{
		SigningKey:      signingKey,
		SigningMethod:   getenv("HUB_SIGNING_METHOD", "HS256"),
		TokenExpiration: getint("HUB_TOKEN_EXPIRATION_HOURS", 168),
		TokenLookup:     getenv("HUB_TOKEN_LOOKUP", "header:Authorization,cookie:auth-token"),
		AuthScheme:      getenv("HUB_AUTH_SCHEME", "Bearer"),
		CookieName:      getenv("HUB_COOKIE_NAME", "auth-token"),
		CookieSecure:    getbool("HUB_COOKIE_SECURE", false),
		Issuer:          getenv("HUB_ISSUER", "progress-hub"),

		ListenAddr:     getenv("HUB_LISTEN_ADDR", ":8080"),
		DSN:            getenv("HUB_DSN", "file:hub.db?cache=shared&mode=rwc"),
		AllowedOrigins: getlist("HUB_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		ClerkIssuer:  os.Getenv("HUB_CLERK_ISSUER"),
		ClerkJWKSURL: os.Getenv("HUB_CLERK_JWKS_URL"),
	}, nil
}

func (s *Settings) GetSigningKey() string {
	return s.SigningKey
}

func (s *Settings) GetSigningMethod() string {
	return s.SigningMethod
}

func (s *Settings) GetTokenExpiration() int {
	return s.TokenExpiration
}

func (s *Settings) GetTokenLookup() string {
	return s.TokenLookup
}

func (s *Settings) GetAuthScheme() string {
	return s.AuthScheme
}

func (s *Settings) GetCookieName() string {
	return s.CookieName
}

func (s *Settings) GetCookieSecure() bool {
	return s.CookieSecure
}

func (s *Settings) GetIssuer() string {
	return s.Issuer
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return def
	}
	return out
}
