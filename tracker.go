package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TaskStatus is the workflow label on a tracked task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// IsValidTaskStatus reports whether s names a known task state.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is one unit of tracked work.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Status        TaskStatus `bun:"status,notnull" json:"status"`
	Assignee      string     `bun:"assignee" json:"assignee,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updatedAt,omitempty"`
}

// Deliverable is one checkbox item inside a roadmap phase.
type Deliverable struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// RoadmapPhase groups deliverables under a named phase of the plan.
type RoadmapPhase struct {
	bun.BaseModel `bun:"table:roadmap_phases,alias:rph"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title         string        `bun:"title,notnull" json:"title"`
	Quarter       string        `bun:"quarter" json:"quarter,omitempty"`
	Summary       string        `bun:"summary" json:"summary,omitempty"`
	Deliverables  []Deliverable `bun:"deliverables,type:jsonb" json:"deliverables"`
	SortOrder     int           `bun:"sort_order,notnull,default:0" json:"sortOrder"`
}

// PipelineItem is one entry in the delivery pipeline board.
type PipelineItem struct {
	bun.BaseModel `bun:"table:pipeline_items,alias:pip"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Stage         string     `bun:"stage,notnull" json:"stage"`
	Owner         string     `bun:"owner" json:"owner,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
}

// TaskStore is the task persistence surface.
type TaskStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, record *Task) (*Task, error)
	Update(ctx context.Context, record *Task) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Task, error)
}

// RoadmapStore is the roadmap persistence surface.
type RoadmapStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RoadmapPhase, error)
	Update(ctx context.Context, record *RoadmapPhase) (*RoadmapPhase, error)
	List(ctx context.Context) ([]*RoadmapPhase, error)
}

// PipelineStore is the pipeline persistence surface.
type PipelineStore interface {
	Create(ctx context.Context, record *PipelineItem) (*PipelineItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*PipelineItem, error)
}

// TrackerService covers the day-to-day data entry surface: tasks, roadmap
// phases, and pipeline items. It exists mostly to feed the audit trail.
type TrackerService struct {
	tasks    TaskStore
	roadmap  RoadmapStore
	pipeline PipelineStore
	sink     ActivitySink
	logger   Logger
	now      func() time.Time
}

// NewTrackerService builds the tracker service over its stores.
func NewTrackerService(tasks TaskStore, roadmap RoadmapStore, pipeline PipelineStore, sink ActivitySink) *TrackerService {
	return &TrackerService{
		tasks:    tasks,
		roadmap:  roadmap,
		pipeline: pipeline,
		sink:     normalizeActivitySink(sink),
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (s *TrackerService) WithLogger(l Logger) *TrackerService {
	if l != nil {
		s.logger = l
	}
	return s
}

// ListTasks returns every tracked task.
func (s *TrackerService) ListTasks(ctx context.Context) ([]*Task, error) {
	return s.tasks.List(ctx)
}

// CreateTask persists a new task.
func (s *TrackerService) CreateTask(ctx context.Context, record *Task) (*Task, error) {
	if record.Status == "" {
		record.Status = TaskTodo
	}
	if !IsValidTaskStatus(record.Status) {
		return nil, ErrInvalidAction.WithMetadata(map[string]any{"status": record.Status})
	}
	return s.tasks.Create(ctx, record)
}

// UpdateTaskStatus moves a task between workflow states. Any state is
// reachable from any other; a persisted change is audited.
func (s *TrackerService) UpdateTaskStatus(ctx context.Context, actor Identity, id uuid.UUID, status TaskStatus) (*Task, error) {
	if !IsValidTaskStatus(status) {
		return nil, ErrInvalidAction.WithMetadata(map[string]any{"status": status})
	}

	record, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := record.Status
	record.Status = status
	updatedAt := s.now()
	record.UpdatedAt = &updatedAt

	updated, err := s.tasks.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if old != status {
		RecordActivity(ctx, s.sink, actor, ActionTaskStatusUpdate, TargetTask, id.String(), map[string]any{
			"taskTitle": updated.Title,
			"oldStatus": old,
			"newStatus": status,
		})
	}

	return updated, nil
}

// DeleteTask removes a task.
func (s *TrackerService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.tasks.Delete(ctx, id)
}

// ListRoadmap returns roadmap phases in sort order.
func (s *TrackerService) ListRoadmap(ctx context.Context) ([]*RoadmapPhase, error) {
	return s.roadmap.List(ctx)
}

// UpdatePhase replaces the mutable fields of a roadmap phase and audits
// the update.
func (s *TrackerService) UpdatePhase(ctx context.Context, actor Identity, id uuid.UUID, title, quarter, summary string) (*RoadmapPhase, error) {
	record, err := s.roadmap.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		record.Title = title
	}
	record.Quarter = quarter
	record.Summary = summary

	updated, err := s.roadmap.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	RecordActivity(ctx, s.sink, actor, ActionRoadmapPhaseUpdate, TargetRoadmap, id.String(), map[string]any{
		"phaseTitle": updated.Title,
	})

	return updated, nil
}

// ToggleDeliverable flips one deliverable's done flag and audits the
// toggle with the resulting state.
func (s *TrackerService) ToggleDeliverable(ctx context.Context, actor Identity, phaseID uuid.UUID, deliverableID string) (*RoadmapPhase, error) {
	record, err := s.roadmap.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	var toggled *Deliverable
	for i := range record.Deliverables {
		if record.Deliverables[i].ID == deliverableID {
			record.Deliverables[i].Done = !record.Deliverables[i].Done
			toggled = &record.Deliverables[i]
			break
		}
	}

	if toggled == nil {
		return nil, ErrInvalidID.WithMetadata(map[string]any{"deliverableId": deliverableID})
	}

	updated, err := s.roadmap.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	RecordActivity(ctx, s.sink, actor, ActionRoadmapDeliverableToggle, TargetRoadmap, phaseID.String(), map[string]any{
		"phaseTitle":  updated.Title,
		"deliverable": toggled.Label,
		"done":        toggled.Done,
	})

	return updated, nil
}

// ListPipeline returns the pipeline board.
func (s *TrackerService) ListPipeline(ctx context.Context) ([]*PipelineItem, error) {
	return s.pipeline.List(ctx)
}

// CreatePipelineItem persists a new pipeline entry.
func (s *TrackerService) CreatePipelineItem(ctx context.Context, record *PipelineItem) (*PipelineItem, error) {
	return s.pipeline.Create(ctx, record)
}

// DeletePipelineItem removes a pipeline entry.
func (s *TrackerService) DeletePipelineItem(ctx context.Context, id uuid.UUID) error {
	return s.pipeline.Delete(ctx, id)
}
