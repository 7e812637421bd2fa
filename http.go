package hub

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/jobpromax/progress-hub/middleware/tokenware"
)

// RouteAuthenticator bridges the Authenticator into HTTP: cookie handling,
// the protected-route middleware, and the uniform boundary error shape.
type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	ErrorHandler   func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

func (a RouteAuthenticator) GetCookieName() string {
	return a.cfg.GetCookieName()
}

// validatorAdapter narrows the package TokenValidator into the middleware's
// structural interface.
type validatorAdapter struct {
	validator TokenValidator
}

func (v validatorAdapter) Validate(tokenString string) (tokenware.AuthClaims, error) {
	claims, err := v.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ProtectedRoute returns a guard that authenticates the request and, when
// allowedRoles is non-empty, authorizes the validated role against the set.
// Missing token, invalid token, and unknown subject all reach the error
// handler and collapse into one 401 body there.
func (a *RouteAuthenticator) ProtectedRoute(validator TokenValidator, allowedRoles ...UserRole) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ErrorHandler:   a.MakeAuthErrorHandler(false),
		TokenValidator: validatorAdapter{validator: validator},
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     "user",
		TokenLookup:    a.cfg.GetTokenLookup(),
		AllowedRoles:   allowedRoles,
		RoleChecker: func(claims tokenware.AuthClaims, allowed []string) error {
			return RoleChecker(claims.Role(), allowed...)
		},
	})
}

// OptionalRoute authenticates when a token is present but lets anonymous
// requests through untouched.
func (a *RouteAuthenticator) OptionalRoute(validator TokenValidator) router.MiddlewareFunc {
	return tokenware.New(tokenware.Config{
		ErrorHandler:   a.MakeAuthErrorHandler(true),
		TokenValidator: validatorAdapter{validator: validator},
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     "user",
		TokenLookup:    a.cfg.GetTokenLookup(),
	})
}

// Login authenticates the payload and, on success, sets the session cookie.
func (a *RouteAuthenticator) Login(ctx router.Context, email, password string) (string, error) {
	token, err := a.auth.Login(ctx.Context(), email, password)
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return "", err
	}

	a.setCookieToken(ctx, token, a.cookieDuration)
	return token, nil
}

// Logout clears the session cookie.
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	a.cookieDel(ctx, a.cfg.GetCookieName())
}

// MakeAuthErrorHandler produces the middleware error handler. The optional
// variant logs and lets the request continue anonymously; the strict
// variant responds through the uniform boundary handler.
func (a *RouteAuthenticator) MakeAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: "Lax",
	})
}

// defaultErrHandler is the uniform JSON boundary. Every authentication
// sub-kind answers 401 with the same body; authorization failures answer
// 403; everything else keeps its own category mapping.
func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Boundary error handler: %s (%s)",
		richErr.Message,
		richErr.Category,
	)

	if IsAuthKind(richErr) || richErr.Category == errors.CategoryAuth {
		return c.JSON(router.StatusUnauthorized, router.ViewContext{
			"error": "Not authenticated",
		})
	}

	if richErr.Category == errors.CategoryAuthz {
		return c.JSON(router.StatusForbidden, router.ViewContext{
			"error": richErr.Message,
		})
	}

	return c.JSON(richErr.Code, router.ViewContext{
		"error": richErr.Message,
	})
}
