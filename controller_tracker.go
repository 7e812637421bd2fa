package hub

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// TrackerController is the day-to-day data entry surface.
type TrackerController struct {
	Logger  Logger
	Auth    Authenticator
	Service *TrackerService
}

func NewTrackerController(auth Authenticator, service *TrackerService) *TrackerController {
	return &TrackerController{
		Logger:  defLogger{},
		Auth:    auth,
		Service: service,
	}
}

func (c *TrackerController) WithLogger(l Logger) *TrackerController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterTrackerRoutes mounts tasks, roadmap, and pipeline for any
// authenticated identity.
func RegisterTrackerRoutes[T any](app router.Router[T], auther HTTPAuthenticator, validator TokenValidator, controller *TrackerController) {
	authed := auther.ProtectedRoute(validator)

	app.Get("/tasks", controller.ListTasks, authed).SetName("tasks.list")
	app.Post("/tasks", controller.CreateTask, authed).SetName("tasks.create")
	app.Patch("/tasks/:id/status", controller.UpdateTaskStatus, authed).SetName("tasks.status")
	app.Delete("/tasks/:id", controller.DeleteTask, authed).SetName("tasks.delete")

	app.Get("/roadmap", controller.ListRoadmap, authed).SetName("roadmap.list")
	app.Patch("/roadmap/:id", controller.UpdatePhase, authed).SetName("roadmap.update")
	app.Post("/roadmap/:id/deliverables/:deliverableId/toggle", controller.ToggleDeliverable, authed).SetName("roadmap.toggle")

	app.Get("/pipeline", controller.ListPipeline, authed).SetName("pipeline.list")
	app.Post("/pipeline", controller.CreatePipelineItem, authed).SetName("pipeline.create")
	app.Delete("/pipeline/:id", controller.DeletePipelineItem, authed).SetName("pipeline.delete")
}

func (c *TrackerController) ListTasks(ctx router.Context) error {
	records, err := c.Service.ListTasks(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}
	return ctx.JSON(router.StatusOK, router.ViewContext{
		"tasks": records,
	})
}

// CreateTaskRequest payload
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
}

func (r CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Status, validation.In(
			string(TaskTodo), string(TaskInProgress), string(TaskDone),
		)),
	)
}

func (c *TrackerController) CreateTask(ctx router.Context) error {
	payload := new(CreateTaskRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	record := &Task{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      TaskStatus(payload.Status),
		Assignee:    payload.Assignee,
	}

	created, err := c.Service.CreateTask(ctx.Context(), record)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, router.ViewContext{
		"task": created,
	})
}

// UpdateTaskStatusRequest payload
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateTaskStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(TaskTodo), string(TaskInProgress), string(TaskDone),
		)),
	)
}

func (c *TrackerController) UpdateTaskStatus(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	payload := new(UpdateTaskStatusRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	updated, err := c.Service.UpdateTaskStatus(ctx.Context(), actor, id, TaskStatus(payload.Status))
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"task": updated,
	})
}

func (c *TrackerController) DeleteTask(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	if err := c.Service.DeleteTask(ctx.Context(), id); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}

func (c *TrackerController) ListRoadmap(ctx router.Context) error {
	records, err := c.Service.ListRoadmap(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}
	return ctx.JSON(router.StatusOK, router.ViewContext{
		"roadmap": records,
	})
}

// UpdatePhaseRequest payload
type UpdatePhaseRequest struct {
	Title   string `json:"title"`
	Quarter string `json:"quarter"`
	Summary string `json:"summary"`
}

func (c *TrackerController) UpdatePhase(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	payload := new(UpdatePhaseRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	updated, err := c.Service.UpdatePhase(ctx.Context(), actor, id, payload.Title, payload.Quarter, payload.Summary)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"phase": updated,
	})
}

func (c *TrackerController) ToggleDeliverable(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	deliverableID := ctx.Param("deliverableId")
	if deliverableID == "" {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	updated, err := c.Service.ToggleDeliverable(ctx.Context(), actor, id, deliverableID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"phase": updated,
	})
}

func (c *TrackerController) ListPipeline(ctx router.Context) error {
	records, err := c.Service.ListPipeline(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}
	return ctx.JSON(router.StatusOK, router.ViewContext{
		"pipeline": records,
	})
}

// CreatePipelineItemRequest payload
type CreatePipelineItemRequest struct {
	Title string `json:"title"`
	Stage string `json:"stage"`
	Owner string `json:"owner"`
}

func (r CreatePipelineItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Stage, validation.Required, validation.Length(1, 100)),
	)
}

func (c *TrackerController) CreatePipelineItem(ctx router.Context) error {
	payload := new(CreatePipelineItemRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	record := &PipelineItem{
		Title: payload.Title,
		Stage: payload.Stage,
		Owner: payload.Owner,
	}

	created, err := c.Service.CreatePipelineItem(ctx.Context(), record)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, router.ViewContext{
		"item": created,
	})
}

func (c *TrackerController) DeletePipelineItem(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	if err := c.Service.DeletePipelineItem(ctx.Context(), id); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}
