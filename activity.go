package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActionType enumerates the auditable actions. The set is closed: list
// filters reject anything outside it.
type ActionType string

const (
	ActionFeatureStatusUpdate      ActionType = "FEATURE_STATUS_UPDATE"
	ActionReportCreated            ActionType = "REPORT_CREATED"
	ActionReportAcknowledged       ActionType = "REPORT_ACKNOWLEDGED"
	ActionReportAddressed          ActionType = "REPORT_ADDRESSED"
	ActionReportNoteAdded          ActionType = "REPORT_NOTE_ADDED"
	ActionReportDeleted            ActionType = "REPORT_DELETED"
	ActionRoadmapPhaseUpdate       ActionType = "ROADMAP_PHASE_UPDATE"
	ActionRoadmapDeliverableToggle ActionType = "ROADMAP_DELIVERABLE_TOGGLE"
	ActionUserCreated              ActionType = "USER_CREATED"
	ActionUserDeleted              ActionType = "USER_DELETED"
	ActionTaskStatusUpdate         ActionType = "TASK_STATUS_UPDATE"
	ActionLogin                    ActionType = "LOGIN"
	ActionLogout                   ActionType = "LOGOUT"
)

// AllActionTypes returns every recognized action.
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionFeatureStatusUpdate,
		ActionReportCreated,
		ActionReportAcknowledged,
		ActionReportAddressed,
		ActionReportNoteAdded,
		ActionReportDeleted,
		ActionRoadmapPhaseUpdate,
		ActionRoadmapDeliverableToggle,
		ActionUserCreated,
		ActionUserDeleted,
		ActionTaskStatusUpdate,
		ActionLogin,
		ActionLogout,
	}
}

// ParseActionType validates a raw action string.
func ParseActionType(raw string) (ActionType, bool) {
	candidate := ActionType(raw)
	for _, a := range AllActionTypes() {
		if a == candidate {
			return a, true
		}
	}
	return "", false
}

// TargetType names the entity category an action touched.
type TargetType string

const (
	TargetFeature TargetType = "feature"
	TargetReport  TargetType = "report"
	TargetRoadmap TargetType = "roadmap"
	TargetUser    TargetType = "user"
	TargetTask    TargetType = "task"
)

// ActorSnapshot is the denormalized actor identity captured at record time.
// Entries stay readable as written even if the user is later deleted.
type ActorSnapshot struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// SnapshotActor captures the actor fields from an identity.
func SnapshotActor(identity Identity) ActorSnapshot {
	if identity == nil {
		return ActorSnapshot{}
	}
	return ActorSnapshot{
		ID:   identity.ID(),
		Name: identity.Name(),
		Role: identity.Role(),
	}
}

// ActivityEvent captures audit information about a committed action.
type ActivityEvent struct {
	Action     ActionType
	Actor      ActorSnapshot
	TargetType TargetType
	TargetID   string
	Details    map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

// ActivityRecord is the append-only audit row. There is no update path and
// no delete path; entries carry the actor snapshot inline so they never
// join against the users table.
type ActivityRecord struct {
	bun.BaseModel `bun:"table:activity_log,alias:act"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Action        ActionType     `bun:"action,notnull" json:"action"`
	ActorID       string         `bun:"actor_id,notnull" json:"userId"`
	ActorName     string         `bun:"actor_name,notnull" json:"userName"`
	ActorRole     UserRole       `bun:"actor_role,notnull" json:"userRole"`
	TargetType    TargetType     `bun:"target_type,nullzero" json:"targetType,omitempty"`
	TargetID      string         `bun:"target_id,nullzero" json:"targetId,omitempty"`
	Details       map[string]any `bun:"details,type:jsonb" json:"details,omitempty"`
	Timestamp     time.Time      `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}

// ActivityRecorder writes audit entries through the activity store. It is
// the sink used in production; failures are logged and swallowed so a
// broken audit trail never rolls back or fails the action it describes.
type ActivityRecorder struct {
	store  ActivityStore
	logger Logger
}

// ActivityStore is the persistence surface the recorder needs.
type ActivityStore interface {
	Insert(ctx context.Context, record *ActivityRecord) (*ActivityRecord, error)
}

// NewActivityRecorder builds a recorder over the given store.
func NewActivityRecorder(store ActivityStore, logger Logger) *ActivityRecorder {
	if logger == nil {
		logger = defLogger{}
	}
	return &ActivityRecorder{store: store, logger: logger}
}

var _ ActivitySink = (*ActivityRecorder)(nil)

// Record implements ActivitySink. It never returns an error to the caller
// beyond the interface contract; persistence failures are logged only.
func (r *ActivityRecorder) Record(ctx context.Context, event ActivityEvent) error {
	if r.store == nil {
		return nil
	}

	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	record := &ActivityRecord{
		Action:     event.Action,
		ActorID:    event.Actor.ID,
		ActorName:  event.Actor.Name,
		ActorRole:  event.Actor.Role,
		TargetType: event.TargetType,
		TargetID:   event.TargetID,
		Details:    event.Details,
		Timestamp:  occurred,
	}

	if _, err := r.store.Insert(ctx, record); err != nil {
		r.logger.Warn("activity record insert error: %v", err)
	}

	return nil
}

// RecordActivity is the one-call helper services use after a mutation has
// been committed. The sink runs fire and forget: the mutation's outcome is
// already decided by the time this is called.
func RecordActivity(ctx context.Context, sink ActivitySink, actor Identity, action ActionType, targetType TargetType, targetID string, details map[string]any) {
	event := ActivityEvent{
		Action:     action,
		Actor:      SnapshotActor(actor),
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		OccurredAt: time.Now(),
	}
	_ = normalizeActivitySink(sink).Record(ctx, event)
}
