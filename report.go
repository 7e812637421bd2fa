package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReportStatus is the lifecycle label on an incident report.
type ReportStatus string

const (
	ReportPending      ReportStatus = "pending"
	ReportAcknowledged ReportStatus = "acknowledged"
	ReportAddressed    ReportStatus = "addressed"
)

// ReportImpact grades the severity a reporter assigns.
type ReportImpact string

const (
	ImpactLow    ReportImpact = "low"
	ImpactMedium ReportImpact = "medium"
	ImpactHigh   ReportImpact = "high"
)

// IsValidReportImpact reports whether s names a known impact grade.
func IsValidReportImpact(s ReportImpact) bool {
	switch s {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	}
	return false
}

// reportTransitions is the closed lifecycle table. Addressed is terminal:
// it has no outgoing edges, and entering it stamps the resolution time.
var reportTransitions = map[ReportStatus]map[ReportStatus]struct{}{
	ReportPending: {
		ReportAcknowledged: {},
		ReportAddressed:    {},
	},
	ReportAcknowledged: {
		ReportAddressed: {},
	},
	ReportAddressed: {},
}

// CanTransitionReport reports whether the lifecycle allows from -> to.
func CanTransitionReport(from, to ReportStatus) bool {
	targets, ok := reportTransitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// reportActionFor maps a lifecycle target to its audit action.
func reportActionFor(to ReportStatus) ActionType {
	if to == ReportAddressed {
		return ActionReportAddressed
	}
	return ActionReportAcknowledged
}

// ReporterRef is the denormalized snapshot of whoever filed the report.
// Anonymous submissions leave ID empty.
type ReporterRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// AdminNote is one manager comment appended to a report.
type AdminNote struct {
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IncidentReport is a user-filed problem report with a managed lifecycle.
type IncidentReport struct {
	bun.BaseModel `bun:"table:incident_reports,alias:rpt"`
	ID            uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title         string       `bun:"title,notnull" json:"title"`
	Description   string       `bun:"description" json:"description,omitempty"`
	Impact        ReportImpact `bun:"impact,notnull" json:"impact"`
	Status        ReportStatus `bun:"status,notnull" json:"status"`
	Reporter      ReporterRef  `bun:"reporter,type:jsonb" json:"reporter"`
	AdminNotes    []AdminNote  `bun:"admin_notes,type:jsonb" json:"adminNotes,omitempty"`
	CreatedAt     *time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	ResolvedAt    *time.Time   `bun:"resolved_at,nullzero" json:"resolvedAt,omitempty"`
}

// ReportStore is the persistence surface the service needs.
type ReportStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*IncidentReport, error)
	Create(ctx context.Context, record *IncidentReport) (*IncidentReport, error)
	Update(ctx context.Context, record *IncidentReport) (*IncidentReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, statuses []ReportStatus) ([]*IncidentReport, error)
}

// ReportService drives the report lifecycle and its audit trail.
type ReportService struct {
	store  ReportStore
	sink   ActivitySink
	logger Logger
	now    func() time.Time
}

// NewReportService builds a report service over the given store.
func NewReportService(store ReportStore, sink ActivitySink) *ReportService {
	return &ReportService{
		store:  store,
		sink:   normalizeActivitySink(sink),
		logger: defLogger{},
		now:    time.Now,
	}
}

func (s *ReportService) WithLogger(l Logger) *ReportService {
	if l != nil {
		s.logger = l
	}
	return s
}

// Create files a new report. Submission does not require a session; when
// one rode along the reporter snapshot carries the actor id and the action
// is audited, otherwise the report stays anonymous and unaudited.
func (s *ReportService) Create(ctx context.Context, actor Identity, record *IncidentReport) (*IncidentReport, error) {
	if !IsValidReportImpact(record.Impact) {
		record.Impact = ImpactMedium
	}
	record.Status = ReportPending

	if actor != nil {
		record.Reporter = ReporterRef{
			ID:    actor.ID(),
			Name:  actor.Name(),
			Email: actor.Email(),
		}
	}

	created, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if actor != nil {
		RecordActivity(ctx, s.sink, actor, ActionReportCreated, TargetReport, created.ID.String(), map[string]any{
			"title":  created.Title,
			"impact": created.Impact,
		})
	}

	return created, nil
}

// List returns reports newest first, optionally narrowed to a status set.
func (s *ReportService) List(ctx context.Context, statuses []ReportStatus) ([]*IncidentReport, error) {
	return s.store.List(ctx, statuses)
}

// UpdateStatus moves a report through its lifecycle. A move the table does
// not allow is a conflict; entering addressed stamps ResolvedAt. The audit
// record is written only after the row is persisted.
func (s *ReportService) UpdateStatus(ctx context.Context, actor Identity, id uuid.UUID, target ReportStatus) (*IncidentReport, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := record.Status
	if from == target {
		return record, nil
	}

	if !CanTransitionReport(from, target) {
		return nil, ErrInvalidReportTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	record.Status = target
	if target == ReportAddressed {
		resolved := s.now()
		record.ResolvedAt = &resolved
	}

	updated, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	RecordActivity(ctx, s.sink, actor, reportActionFor(target), TargetReport, id.String(), map[string]any{
		"title":     updated.Title,
		"oldStatus": from,
		"newStatus": target,
	})

	return updated, nil
}

// AddNote appends a manager comment with a denormalized author snapshot.
func (s *ReportService) AddNote(ctx context.Context, actor Identity, id uuid.UUID, text string) (*IncidentReport, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.AdminNotes = append(record.AdminNotes, AdminNote{
		AuthorID:   actorID(actor),
		AuthorName: actorName(actor),
		Text:       text,
		CreatedAt:  s.now(),
	})

	updated, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	RecordActivity(ctx, s.sink, actor, ActionReportNoteAdded, TargetReport, id.String(), map[string]any{
		"title": updated.Title,
	})

	return updated, nil
}

// Delete removes a report. The audit entry survives the row it describes.
func (s *ReportService) Delete(ctx context.Context, actor Identity, id uuid.UUID) error {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	RecordActivity(ctx, s.sink, actor, ActionReportDeleted, TargetReport, id.String(), map[string]any{
		"title": record.Title,
	})

	return nil
}
