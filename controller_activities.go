package hub

import (
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ActivitiesController exposes the read side of the audit trail.
type ActivitiesController struct {
	Logger     Logger
	Auth       Authenticator
	Activities Activities
}

func NewActivitiesController(auth Authenticator, activities Activities) *ActivitiesController {
	return &ActivitiesController{
		Logger:     defLogger{},
		Auth:       auth,
		Activities: activities,
	}
}

func (c *ActivitiesController) WithLogger(l Logger) *ActivitiesController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterActivityRoutes mounts the audit trail listing routes. The broad
// views are manager only; every identity may read its own slice.
func RegisterActivityRoutes[T any](app router.Router[T], auther HTTPAuthenticator, validator TokenValidator, controller *ActivitiesController) {
	managers := auther.ProtectedRoute(validator, RoleManager)
	authed := auther.ProtectedRoute(validator)

	app.Get("/api/activities", controller.List, managers).SetName("activities.list")
	app.Get("/api/activities/user/:id", controller.ListForUser, managers).SetName("activities.user")
	app.Get("/api/activities/me", controller.ListMine, authed).SetName("activities.me")
}

// List returns audit records newest first with optional userId and action
// filters. Unknown filter values are rejected before the store is touched.
func (c *ActivitiesController) List(ctx router.Context) error {
	filter := ActivityFilter{
		Offset: ctx.QueryInt("offset", 0),
		Limit:  ctx.QueryInt("limit", DefaultActivityLimit),
	}

	if rawID := ctx.Query("userId", ""); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return WriteError(ctx, c.Logger, ErrInvalidID)
		}
		filter.ActorID = id.String()
	}

	if rawAction := ctx.Query("action", ""); rawAction != "" {
		action, ok := ParseActionType(rawAction)
		if !ok {
			return WriteError(ctx, c.Logger, ErrInvalidAction)
		}
		filter.Action = action
	}

	return c.respondWithPage(ctx, filter)
}

// ListForUser returns one actor's audit slice for a manager.
func (c *ActivitiesController) ListForUser(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	filter := ActivityFilter{
		ActorID: id.String(),
		Offset:  ctx.QueryInt("offset", 0),
		Limit:   ctx.QueryInt("limit", DefaultActivityLimit),
	}

	return c.respondWithPage(ctx, filter)
}

// ListMine returns the caller's own audit slice. No role gate beyond a
// valid session: everyone may see what they did.
func (c *ActivitiesController) ListMine(ctx router.Context) error {
	identity, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	filter := ActivityFilter{
		ActorID: identity.ID(),
		Offset:  ctx.QueryInt("offset", 0),
		Limit:   ctx.QueryInt("limit", DefaultActivityLimit),
	}

	return c.respondWithPage(ctx, filter)
}

func (c *ActivitiesController) respondWithPage(ctx router.Context, filter ActivityFilter) error {
	records, err := c.Activities.List(ctx.Context(), filter)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	total, err := c.Activities.Count(ctx.Context(), filter)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"activities": records,
		"total":      total,
		"offset":     normalizeOffset(filter.Offset),
		"limit":      normalizeLimit(filter.Limit),
	})
}
