package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FeatureStatus is the health label on a tracked feature.
type FeatureStatus string

const (
	StatusOperational FeatureStatus = "operational"
	StatusDegraded    FeatureStatus = "degraded"
	StatusCritical    FeatureStatus = "critical"
)

// IsValidFeatureStatus reports whether s names a known health state. Any
// state is reachable from any other; validity is the only gate.
func IsValidFeatureStatus(s FeatureStatus) bool {
	switch s {
	case StatusOperational, StatusDegraded, StatusCritical:
		return true
	}
	return false
}

// UpdatedByRef is the denormalized stamp of who last touched a feature.
type UpdatedByRef struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}

// Feature is a tracked capability with a health status and a rolling
// per-day status history embedded in the row.
type Feature struct {
	bun.BaseModel `bun:"table:features,alias:ftr"`
	ID            uuid.UUID            `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name          string               `bun:"name,notnull" json:"name"`
	Description   string               `bun:"description" json:"description,omitempty"`
	Status        FeatureStatus        `bun:"status,notnull" json:"status"`
	History       []StatusHistoryEntry `bun:"history,type:jsonb" json:"history"`
	LastUpdatedBy *UpdatedByRef        `bun:"last_updated_by,type:jsonb" json:"lastUpdatedBy,omitempty"`
	CreatedAt     *time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
}

// FeaturePatch carries the optional fields of a partial update.
type FeaturePatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *FeatureStatus `json:"status,omitempty"`
}

// FeatureStore is the persistence surface the service needs.
type FeatureStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Feature, error)
	Create(ctx context.Context, record *Feature) (*Feature, error)
	Update(ctx context.Context, record *Feature) (*Feature, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Feature, error)
}

// FeatureService applies feature mutations and keeps the status history
// and audit trail in step with them.
type FeatureService struct {
	store  FeatureStore
	sink   ActivitySink
	logger Logger
	now    func() time.Time
}

// NewFeatureService builds a feature service over the given store.
func NewFeatureService(store FeatureStore, sink ActivitySink) *FeatureService {
	return &FeatureService{
		store:  store,
		sink:   normalizeActivitySink(sink),
		logger: defLogger{},
		now:    time.Now,
	}
}

func (s *FeatureService) WithLogger(l Logger) *FeatureService {
	if l != nil {
		s.logger = l
	}
	return s
}

// List returns all tracked features.
func (s *FeatureService) List(ctx context.Context) ([]*Feature, error) {
	return s.store.List(ctx)
}

// Create persists a new feature. The initial status seeds the first
// history entry so day one is never blank.
func (s *FeatureService) Create(ctx context.Context, actor Identity, record *Feature) (*Feature, error) {
	if record.Status == "" {
		record.Status = StatusOperational
	}
	if !IsValidFeatureStatus(record.Status) {
		return nil, ErrInvalidAction.WithMetadata(map[string]any{"status": record.Status})
	}

	now := s.now()
	record.History = UpsertStatusHistory(nil, now, record.Status)
	if actor != nil {
		record.LastUpdatedBy = &UpdatedByRef{ID: actor.ID(), Name: actor.Name(), Time: now}
	}

	return s.store.Create(ctx, record)
}

// Update applies a partial update. A status in the patch always folds into
// today's history entry and stamps the actor, but the audit record is
// written only when the stored value actually changed. The audit runs after
// the row is persisted; a failed write leaves no trace.
func (s *FeatureService) Update(ctx context.Context, actor Identity, id uuid.UUID, patch FeaturePatch) (*Feature, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := record.Status

	if patch.Name != nil {
		record.Name = *patch.Name
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}

	statusChanged := false
	if patch.Status != nil {
		next := *patch.Status
		if !IsValidFeatureStatus(next) {
			return nil, ErrInvalidAction.WithMetadata(map[string]any{"status": next})
		}

		now := s.now()
		record.Status = next
		record.History = UpsertStatusHistory(record.History, now, next)
		record.LastUpdatedBy = &UpdatedByRef{
			ID:   actorID(actor),
			Name: actorName(actor),
			Time: now,
		}
		statusChanged = next != oldStatus
	}

	updated, err := s.store.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		RecordActivity(ctx, s.sink, actor, ActionFeatureStatusUpdate, TargetFeature, id.String(), map[string]any{
			"featureName": updated.Name,
			"oldStatus":   oldStatus,
			"newStatus":   updated.Status,
		})
	}

	return updated, nil
}

// Delete removes a feature and its embedded history.
func (s *FeatureService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func actorID(actor Identity) string {
	if actor == nil {
		return ""
	}
	return actor.ID()
}

func actorName(actor Identity) string {
	if actor == nil {
		return ""
	}
	return actor.Name()
}
