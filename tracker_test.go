package hub_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskStoreStub struct {
	getByID func(ctx context.Context, id uuid.UUID) (*hub.Task, error)
	create  func(ctx context.Context, record *hub.Task) (*hub.Task, error)
	update  func(ctx context.Context, record *hub.Task) (*hub.Task, error)
	del     func(ctx context.Context, id uuid.UUID) error
	list    func(ctx context.Context) ([]*hub.Task, error)
}

func (s taskStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*hub.Task, error) {
	return s.getByID(ctx, id)
}

func (s taskStoreStub) Create(ctx context.Context, record *hub.Task) (*hub.Task, error) {
	if s.create != nil {
		return s.create(ctx, record)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (s taskStoreStub) Update(ctx context.Context, record *hub.Task) (*hub.Task, error) {
	if s.update != nil {
		return s.update(ctx, record)
	}
	return record, nil
}

func (s taskStoreStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return nil
}

func (s taskStoreStub) List(ctx context.Context) ([]*hub.Task, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

type roadmapStoreStub struct {
	getByID func(ctx context.Context, id uuid.UUID) (*hub.RoadmapPhase, error)
	update  func(ctx context.Context, record *hub.RoadmapPhase) (*hub.RoadmapPhase, error)
}

func (s roadmapStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*hub.RoadmapPhase, error) {
	return s.getByID(ctx, id)
}

func (s roadmapStoreStub) Update(ctx context.Context, record *hub.RoadmapPhase) (*hub.RoadmapPhase, error) {
	if s.update != nil {
		return s.update(ctx, record)
	}
	return record, nil
}

func (s roadmapStoreStub) List(ctx context.Context) ([]*hub.RoadmapPhase, error) {
	return nil, nil
}

type pipelineStoreStub struct{}

func (pipelineStoreStub) Create(ctx context.Context, record *hub.PipelineItem) (*hub.PipelineItem, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return record, nil
}

func (pipelineStoreStub) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (pipelineStoreStub) List(ctx context.Context) ([]*hub.PipelineItem, error) {
	return nil, nil
}

func TestTrackerService_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	actor := testDeveloper()

	t.Run("status change is audited with old and new values", func(t *testing.T) {
		id := uuid.New()
		task := &hub.Task{ID: id, Title: "Wire payments", Status: hub.TaskTodo}

		sink := &captureSink{}
		service := hub.NewTrackerService(taskStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Task, error) {
				return task, nil
			},
		}, roadmapStoreStub{}, pipelineStoreStub{}, sink)

		updated, err := service.UpdateTaskStatus(ctx, actor, id, hub.TaskInProgress)
		require.NoError(t, err)
		assert.Equal(t, hub.TaskInProgress, updated.Status)
		require.NotNil(t, updated.UpdatedAt)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, hub.ActionTaskStatusUpdate, events[0].Action)
		assert.Equal(t, hub.TargetTask, events[0].TargetType)
		assert.Equal(t, id.String(), events[0].TargetID)
		assert.Equal(t, actor.ID(), events[0].Actor.ID)
		assert.Equal(t, hub.TaskTodo, events[0].Details["oldStatus"])
		assert.Equal(t, hub.TaskInProgress, events[0].Details["newStatus"])
	})

	t.Run("writing the same status is not audited", func(t *testing.T) {
		id := uuid.New()
		task := &hub.Task{ID: id, Title: "Wire payments", Status: hub.TaskDone}

		sink := &captureSink{}
		service := hub.NewTrackerService(taskStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Task, error) {
				return task, nil
			},
		}, roadmapStoreStub{}, pipelineStoreStub{}, sink)

		_, err := service.UpdateTaskStatus(ctx, actor, id, hub.TaskDone)
		require.NoError(t, err)
		assert.Empty(t, sink.Events())
	})

	t.Run("unknown status is rejected before the store", func(t *testing.T) {
		called := false
		service := hub.NewTrackerService(taskStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Task, error) {
				called = true
				return nil, nil
			},
		}, roadmapStoreStub{}, pipelineStoreStub{}, &captureSink{})

		_, err := service.UpdateTaskStatus(ctx, actor, uuid.New(), hub.TaskStatus("paused"))
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestTrackerService_CreateTask(t *testing.T) {
	ctx := context.Background()

	service := hub.NewTrackerService(taskStoreStub{}, roadmapStoreStub{}, pipelineStoreStub{}, &captureSink{})

	t.Run("blank status defaults to todo", func(t *testing.T) {
		created, err := service.CreateTask(ctx, &hub.Task{Title: "Spike caching"})
		require.NoError(t, err)
		assert.Equal(t, hub.TaskTodo, created.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := service.CreateTask(ctx, &hub.Task{Title: "Spike caching", Status: "blocked"})
		assert.Error(t, err)
	})
}

func TestTrackerService_ToggleDeliverable(t *testing.T) {
	ctx := context.Background()
	actor := testManager()
	phaseID := uuid.New()

	newPhase := func() *hub.RoadmapPhase {
		return &hub.RoadmapPhase{
			ID:    phaseID,
			Title: "Q3 Launch",
			Deliverables: []hub.Deliverable{
				{ID: "d1", Label: "Ship billing", Done: false},
				{ID: "d2", Label: "Ship search", Done: true},
			},
		}
	}

	t.Run("flips the flag and audits the resulting state", func(t *testing.T) {
		phase := newPhase()
		sink := &captureSink{}
		service := hub.NewTrackerService(taskStoreStub{}, roadmapStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.RoadmapPhase, error) {
				return phase, nil
			},
		}, pipelineStoreStub{}, sink)

		updated, err := service.ToggleDeliverable(ctx, actor, phaseID, "d1")
		require.NoError(t, err)
		assert.True(t, updated.Deliverables[0].Done)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, hub.ActionRoadmapDeliverableToggle, events[0].Action)
		assert.Equal(t, hub.TargetRoadmap, events[0].TargetType)
		assert.Equal(t, "Ship billing", events[0].Details["deliverable"])
		assert.Equal(t, true, events[0].Details["done"])
	})

	t.Run("unknown deliverable id fails without an audit entry", func(t *testing.T) {
		phase := newPhase()
		sink := &captureSink{}
		service := hub.NewTrackerService(taskStoreStub{}, roadmapStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.RoadmapPhase, error) {
				return phase, nil
			},
		}, pipelineStoreStub{}, sink)

		_, err := service.ToggleDeliverable(ctx, actor, phaseID, "missing")
		assert.Error(t, err)
		assert.Empty(t, sink.Events())
	})
}

func TestTrackerService_UpdatePhase(t *testing.T) {
	ctx := context.Background()
	actor := testManager()
	phaseID := uuid.New()

	phase := &hub.RoadmapPhase{ID: phaseID, Title: "Q3 Launch", Quarter: "Q3"}

	sink := &captureSink{}
	service := hub.NewTrackerService(taskStoreStub{}, roadmapStoreStub{
		getByID: func(context.Context, uuid.UUID) (*hub.RoadmapPhase, error) {
			return phase, nil
		},
	}, pipelineStoreStub{}, sink)

	updated, err := service.UpdatePhase(ctx, actor, phaseID, "Q4 Launch", "Q4", "Slipped a quarter")
	require.NoError(t, err)
	assert.Equal(t, "Q4 Launch", updated.Title)
	assert.Equal(t, "Q4", updated.Quarter)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, hub.ActionRoadmapPhaseUpdate, events[0].Action)
	assert.Equal(t, "Q4 Launch", events[0].Details["phaseTitle"])
}
