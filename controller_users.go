package hub

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// UsersController is the manager-only account administration surface.
type UsersController struct {
	Logger Logger
	Auth   Authenticator
	Users  Users
	Sink   ActivitySink
}

func NewUsersController(auth Authenticator, users Users, sink ActivitySink) *UsersController {
	return &UsersController{
		Logger: defLogger{},
		Auth:   auth,
		Users:  users,
		Sink:   normalizeActivitySink(sink),
	}
}

func (c *UsersController) WithLogger(l Logger) *UsersController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterUserRoutes mounts the account administration routes. Every route
// requires the manager role.
func RegisterUserRoutes[T any](app router.Router[T], auther HTTPAuthenticator, validator TokenValidator, controller *UsersController) {
	managers := auther.ProtectedRoute(validator, RoleManager)

	app.Get("/api/users", controller.List, managers).SetName("users.list")
	app.Post("/api/users", controller.Create, managers).SetName("users.create")
	app.Delete("/api/users/:id", controller.Delete, managers).SetName("users.delete")
}

// List returns every account in public shape.
func (c *UsersController) List(ctx router.Context) error {
	records, err := c.Users.ListAll(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	out := make([]PublicUser, 0, len(records))
	for _, record := range records {
		out = append(out, record.Public())
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"users": out,
	})
}

// CreateUserRequest payload
type CreateUserRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Role, validation.Required, validation.In(
			RoleManager, RoleDeveloper, RoleLeadership,
		)),
	)
}

// Create registers a new account with a hashed password and audits it.
func (c *UsersController) Create(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	payload := new(CreateUserRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	record := &User{
		Name:         payload.Name,
		Email:        payload.Email,
		Role:         UserRole(payload.Role),
		PasswordHash: hash,
	}

	created, err := c.Users.Register(ctx.Context(), record)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	RecordActivity(ctx.Context(), c.Sink, actor, ActionUserCreated, TargetUser, created.ID.String(), map[string]any{
		"name": created.Name,
		"role": created.Role,
	})

	return ctx.JSON(router.StatusCreated, router.ViewContext{
		"user": created.Public(),
	})
}

// Delete removes an account. Deleting yourself is refused regardless of
// role; the audit entry keeps the deleted user's name after the row is
// gone.
func (c *UsersController) Delete(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	if actor.ID() == id.String() {
		return WriteError(ctx, c.Logger, ErrSelfDelete)
	}

	target, err := c.Users.GetByIdentifier(ctx.Context(), id.String())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	if err := c.Users.Remove(ctx.Context(), target.ID); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	RecordActivity(ctx.Context(), c.Sink, actor, ActionUserDeleted, TargetUser, target.ID.String(), map[string]any{
		"name": target.Name,
		"role": target.Role,
	})

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}
