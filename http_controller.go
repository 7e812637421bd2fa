package hub

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// HTTPAuthenticator is the surface controllers need from the route
// authenticator.
type HTTPAuthenticator interface {
	Login(ctx router.Context, email, password string) (string, error)
	Logout(ctx router.Context)
	GetCookieName() string
	ProtectedRoute(validator TokenValidator, allowedRoles ...UserRole) router.MiddlewareFunc
	OptionalRoute(validator TokenValidator) router.MiddlewareFunc
}

// SessionTokenFromRequest pulls the raw session token off a request without
// validating it. The bearer header wins over the cookie, matching the
// extractor precedence on protected routes.
func SessionTokenFromRequest(ctx router.Context, cookieName string) string {
	header := ctx.GetString("Authorization", "")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	return ctx.Cookies(cookieName)
}

// ResolveIdentity turns the middleware-validated claims on the request into
// a live identity. The store hop fails closed: a token whose subject has
// been deleted resolves to nothing.
func ResolveIdentity(c router.Context, auth Authenticator) (Identity, error) {
	claims, ok := GetRouterClaims(c, "user")
	if !ok {
		return nil, ErrUnableToFindSession
	}

	session, err := sessionFromAuthClaims(claims)
	if err != nil {
		return nil, err
	}

	return auth.IdentityFromSession(c.Context(), session)
}

// WriteError maps an error onto the JSON boundary. All authentication
// sub-kinds share one 401 body; record-not-found becomes 404; validation
// problems become 400.
func WriteError(c router.Context, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	if IsAuthKind(err) {
		return c.JSON(router.StatusUnauthorized, router.ViewContext{
			"error": "Not authenticated",
		})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		if verrs, ok := err.(validation.Errors); ok {
			return c.JSON(router.StatusBadRequest, router.ViewContext{
				"error":  "Validation failed",
				"fields": verrs,
			})
		}

		logger.Error("unhandled boundary error: %v", err)
		return c.JSON(router.StatusInternalServerError, router.ViewContext{
			"error": "An unexpected server error occurred",
		})
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return c.JSON(router.StatusUnauthorized, router.ViewContext{
			"error": "Not authenticated",
		})
	case errors.CategoryAuthz:
		return c.JSON(router.StatusForbidden, router.ViewContext{
			"error": richErr.Message,
		})
	case errors.CategoryNotFound:
		return c.JSON(router.StatusNotFound, router.ViewContext{
			"error": richErr.Message,
		})
	case errors.CategoryConflict:
		return c.JSON(router.StatusConflict, router.ViewContext{
			"error": richErr.Message,
		})
	case errors.CategoryValidation, errors.CategoryBadInput:
		return c.JSON(router.StatusBadRequest, router.ViewContext{
			"error": richErr.Message,
		})
	default:
		logger.Error("boundary error: %s (%s)", richErr.Message, richErr.Category)
		code := richErr.Code
		if code == 0 {
			code = router.StatusInternalServerError
		}
		return c.JSON(code, router.ViewContext{
			"error": richErr.Message,
		})
	}
}

// AuthController serves login, logout, and the identity probe.
type AuthController struct {
	Logger Logger
	Auther HTTPAuthenticator
	Auth   Authenticator
	Sink   ActivitySink
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Sink:   noopActivitySink{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.Auth == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithAuthControllerAuther(a HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = a
		return c
	}
}

func WithAuthControllerAuthenticator(a Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = a
		return c
	}
}

func WithAuthControllerSink(s ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sink = normalizeActivitySink(s)
		return c
	}
}

// RegisterAuthRoutes mounts login, logout, and the identity probe.
func RegisterAuthRoutes[T any](app router.Router[T], validator TokenValidator, controller *AuthController) {
	protected := controller.Auther.ProtectedRoute(validator)

	app.Post("/auth/login", controller.LoginPost).SetName("auth.login")
	app.Post("/auth/logout", controller.LogoutPost).SetName("auth.logout")
	app.Get("/auth/me", controller.Me, protected).SetName("auth.me")
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost authenticates credentials and sets the session cookie. Unknown
// email and wrong password answer identically.
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, a.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	token, err := a.Auther.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		return ctx.JSON(router.StatusUnauthorized, router.ViewContext{
			"error": "Invalid credentials",
		})
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"user": a.identityForToken(ctx, token),
	})
}

// identityForToken resolves the freshly issued token back into the public
// identity shape. The claims already carry id, email, and role, so a store
// failure right after a successful login degrades to a nameless payload
// instead of an error.
func (a *AuthController) identityForToken(ctx router.Context, token string) PublicUser {
	session, err := a.Auth.SessionFromToken(token)
	if err != nil {
		a.Logger.Error("Login issued an undecodable token: %v", err)
		return PublicUser{}
	}

	if identity, err := a.Auth.IdentityFromSession(ctx.Context(), session); err == nil {
		return PublicUser{
			ID:    identity.ID(),
			Name:  identity.Name(),
			Email: identity.Email(),
			Role:  identity.Role(),
		}
	}

	return PublicUser{
		ID:    session.GetUserID(),
		Email: session.GetEmail(),
		Role:  session.GetRole(),
	}
}

// LogoutPost clears the cookie. The logout is audited only when the
// request still carried a valid session; an anonymous logout is a no-op.
func (a *AuthController) LogoutPost(ctx router.Context) error {
	if raw := SessionTokenFromRequest(ctx, a.Auther.GetCookieName()); raw != "" {
		if session, err := a.Auth.SessionFromToken(raw); err == nil {
			if identity, err := a.Auth.IdentityFromSession(ctx.Context(), session); err == nil {
				RecordActivity(ctx.Context(), a.Sink, identity, ActionLogout, TargetUser, identity.ID(), nil)
			}
		}
	}

	a.Auther.Logout(ctx)

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}

// Me returns the public shape of the authenticated identity.
func (a *AuthController) Me(ctx router.Context) error {
	identity, err := ResolveIdentity(ctx, a.Auth)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"user": PublicUser{
			ID:    identity.ID(),
			Name:  identity.Name(),
			Email: identity.Email(),
			Role:  identity.Role(),
		},
	})
}
