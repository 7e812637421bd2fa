package hub

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// FeaturesController exposes feature health tracking.
type FeaturesController struct {
	Logger  Logger
	Auth    Authenticator
	Service *FeatureService
}

func NewFeaturesController(auth Authenticator, service *FeatureService) *FeaturesController {
	return &FeaturesController{
		Logger:  defLogger{},
		Auth:    auth,
		Service: service,
	}
}

func (c *FeaturesController) WithLogger(l Logger) *FeaturesController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterFeatureRoutes mounts the feature health routes for any
// authenticated identity.
func RegisterFeatureRoutes[T any](app router.Router[T], auther HTTPAuthenticator, validator TokenValidator, controller *FeaturesController) {
	authed := auther.ProtectedRoute(validator)

	app.Get("/features", controller.List, authed).SetName("features.list")
	app.Post("/features", controller.Create, authed).SetName("features.create")
	app.Patch("/features/:id", controller.Update, authed).SetName("features.update")
	app.Delete("/features/:id", controller.Delete, authed).SetName("features.delete")
}

func (c *FeaturesController) List(ctx router.Context) error {
	records, err := c.Service.List(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}
	return ctx.JSON(router.StatusOK, router.ViewContext{
		"features": records,
	})
}

// CreateFeatureRequest payload
type CreateFeatureRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (r CreateFeatureRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(
			string(StatusOperational), string(StatusDegraded), string(StatusCritical),
		)),
	)
}

func (c *FeaturesController) Create(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	payload := new(CreateFeatureRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	record := &Feature{
		Name:        payload.Name,
		Description: payload.Description,
		Status:      FeatureStatus(payload.Status),
	}

	created, err := c.Service.Create(ctx.Context(), actor, record)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, router.ViewContext{
		"feature": created,
	})
}

// UpdateFeatureRequest is the partial-update payload. Absent fields stay
// untouched.
type UpdateFeatureRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (r UpdateFeatureRequest) Validate() error {
	if r.Status == nil {
		return nil
	}
	if !IsValidFeatureStatus(FeatureStatus(*r.Status)) {
		return ErrInvalidAction.WithMetadata(map[string]any{"status": *r.Status})
	}
	return nil
}

func (c *FeaturesController) Update(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	payload := new(UpdateFeatureRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	patch := FeaturePatch{
		Name:        payload.Name,
		Description: payload.Description,
	}
	if payload.Status != nil {
		status := FeatureStatus(*payload.Status)
		patch.Status = &status
	}

	updated, err := c.Service.Update(ctx.Context(), actor, id, patch)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"feature": updated,
	})
}

func (c *FeaturesController) Delete(ctx router.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	if err := c.Service.Delete(ctx.Context(), id); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}

// ReportsController exposes the incident report lifecycle.
type ReportsController struct {
	Logger  Logger
	Auth    Authenticator
	Service *ReportService
}

func NewReportsController(auth Authenticator, service *ReportService) *ReportsController {
	return &ReportsController{
		Logger:  defLogger{},
		Auth:    auth,
		Service: service,
	}
}

func (c *ReportsController) WithLogger(l Logger) *ReportsController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterReportRoutes mounts the incident report routes. Filing a report
// works without a session; everything else is manager only.
func RegisterReportRoutes[T any](app router.Router[T], auther HTTPAuthenticator, validator TokenValidator, controller *ReportsController) {
	managers := auther.ProtectedRoute(validator, RoleManager)
	optional := auther.OptionalRoute(validator)

	app.Post("/api/reports", controller.Create, optional).SetName("reports.create")
	app.Get("/api/reports", controller.List, managers).SetName("reports.list")
	app.Patch("/api/reports/:id/status", controller.UpdateStatus, managers).SetName("reports.status")
	app.Post("/api/reports/:id/notes", controller.AddNote, managers).SetName("reports.notes")
	app.Delete("/api/reports/:id", controller.Delete, managers).SetName("reports.delete")
}

// CreateReportRequest payload
type CreateReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

func (r CreateReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Impact, validation.In(
			string(ImpactLow), string(ImpactMedium), string(ImpactHigh),
		)),
	)
}

func (c *ReportsController) Create(ctx router.Context) error {
	payload := new(CreateReportRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	// Anonymous submissions are allowed; a failed resolve means no actor.
	actor, _ := ResolveIdentity(ctx, c.Auth)

	record := &IncidentReport{
		Title:       payload.Title,
		Description: payload.Description,
		Impact:      ReportImpact(payload.Impact),
		Reporter: ReporterRef{
			Name:  payload.Name,
			Email: payload.Email,
		},
	}

	created, err := c.Service.Create(ctx.Context(), actor, record)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusCreated, router.ViewContext{
		"report": created,
	})
}

func (c *ReportsController) List(ctx router.Context) error {
	var statuses []ReportStatus
	if raw := ctx.Query("status", ""); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			statuses = append(statuses, ReportStatus(strings.TrimSpace(part)))
		}
	}

	records, err := c.Service.List(ctx.Context(), statuses)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"reports": records,
	})
}

// UpdateReportStatusRequest payload
type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateReportStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(ReportPending), string(ReportAcknowledged), string(ReportAddressed),
		)),
	)
}

func (c *ReportsController) UpdateStatus(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	payload := new(UpdateReportStatusRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	updated, err := c.Service.UpdateStatus(ctx.Context(), actor, id, ReportStatus(payload.Status))
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"report": updated,
	})
}

// AddNoteRequest payload
type AddNoteRequest struct {
	Text string `json:"text"`
}

func (r AddNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 2000)),
	)
}

func (c *ReportsController) AddNote(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	payload := new(AddNoteRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID.WithMetadata(map[string]any{
			"cause": "unparseable body",
		}))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	updated, err := c.Service.AddNote(ctx.Context(), actor, id, payload.Text)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"report": updated,
	})
}

func (c *ReportsController) Delete(ctx router.Context) error {
	actor, err := ResolveIdentity(ctx, c.Auth)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return WriteError(ctx, c.Logger, ErrInvalidID)
	}

	if err := c.Service.Delete(ctx.Context(), actor, id); err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(router.StatusOK, router.ViewContext{
		"ok": true,
	})
}
