package hub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockActivityStore implements hub.ActivityStore for testing
type MockActivityStore struct {
	mock.Mock
}

func (m *MockActivityStore) Insert(ctx context.Context, record *hub.ActivityRecord) (*hub.ActivityRecord, error) {
	args := m.Called(ctx, record)
	if rec := args.Get(0); rec != nil {
		return rec.(*hub.ActivityRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestParseActionType(t *testing.T) {
	action, ok := hub.ParseActionType("FEATURE_STATUS_UPDATE")
	assert.True(t, ok)
	assert.Equal(t, hub.ActionFeatureStatusUpdate, action)

	_, ok = hub.ParseActionType("SOMETHING_ELSE")
	assert.False(t, ok)

	_, ok = hub.ParseActionType("")
	assert.False(t, ok)
}

func TestSnapshotActor(t *testing.T) {
	t.Run("captures identity fields", func(t *testing.T) {
		identity := testManager()

		snap := hub.SnapshotActor(identity)

		assert.Equal(t, identity.ID(), snap.ID)
		assert.Equal(t, identity.Name(), snap.Name)
		assert.Equal(t, hub.RoleManager, snap.Role)
	})

	t.Run("nil identity yields an empty snapshot", func(t *testing.T) {
		snap := hub.SnapshotActor(nil)
		assert.Empty(t, snap.ID)
		assert.Empty(t, snap.Name)
	})
}

func TestActivityRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the denormalized actor snapshot", func(t *testing.T) {
		store := &MockActivityStore{}
		var inserted *hub.ActivityRecord
		store.On("Insert", ctx, mock.AnythingOfType("*hub.ActivityRecord")).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*hub.ActivityRecord)
			}).
			Return(&hub.ActivityRecord{}, nil)

		recorder := hub.NewActivityRecorder(store, nopLogger{})

		actor := testManager()
		occurred := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

		err := recorder.Record(ctx, hub.ActivityEvent{
			Action:     hub.ActionUserCreated,
			Actor:      hub.SnapshotActor(actor),
			TargetType: hub.TargetUser,
			TargetID:   "new-user-id",
			Details:    map[string]any{"email": "new@example.com"},
			OccurredAt: occurred,
		})

		assert.NoError(t, err)
		assert.NotNil(t, inserted)
		assert.Equal(t, hub.ActionUserCreated, inserted.Action)
		assert.Equal(t, actor.ID(), inserted.ActorID)
		assert.Equal(t, actor.Name(), inserted.ActorName)
		assert.Equal(t, hub.RoleManager, inserted.ActorRole)
		assert.Equal(t, hub.TargetUser, inserted.TargetType)
		assert.Equal(t, "new-user-id", inserted.TargetID)
		assert.Equal(t, occurred, inserted.Timestamp)

		store.AssertExpectations(t)
	})

	t.Run("fills in a timestamp when the event has none", func(t *testing.T) {
		store := &MockActivityStore{}
		var inserted *hub.ActivityRecord
		store.On("Insert", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).(*hub.ActivityRecord)
			}).
			Return(&hub.ActivityRecord{}, nil)

		recorder := hub.NewActivityRecorder(store, nopLogger{})

		err := recorder.Record(ctx, hub.ActivityEvent{Action: hub.ActionLogin})

		assert.NoError(t, err)
		assert.False(t, inserted.Timestamp.IsZero())
	})

	t.Run("swallows store failures", func(t *testing.T) {
		store := &MockActivityStore{}
		store.On("Insert", ctx, mock.Anything).Return(nil, errors.New("disk full"))

		logger := &MockLogger{}
		logger.On("Warn", mock.AnythingOfType("string"), mock.Anything).Return()

		recorder := hub.NewActivityRecorder(store, logger)

		err := recorder.Record(ctx, hub.ActivityEvent{Action: hub.ActionLogin})

		assert.NoError(t, err)
		logger.AssertCalled(t, "Warn", mock.AnythingOfType("string"), mock.Anything)
	})

	t.Run("nil store is a no-op", func(t *testing.T) {
		recorder := hub.NewActivityRecorder(nil, nopLogger{})
		assert.NoError(t, recorder.Record(ctx, hub.ActivityEvent{Action: hub.ActionLogin}))
	})
}

func TestRecordActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers a complete event", func(t *testing.T) {
		sink := &captureSink{}
		actor := testDeveloper()

		hub.RecordActivity(ctx, sink, actor, hub.ActionTaskStatusUpdate, hub.TargetTask, "task-1", map[string]any{
			"oldStatus": "todo",
			"newStatus": "done",
		})

		events := sink.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, hub.ActionTaskStatusUpdate, events[0].Action)
		assert.Equal(t, actor.ID(), events[0].Actor.ID)
		assert.Equal(t, "task-1", events[0].TargetID)
		assert.Equal(t, "done", events[0].Details["newStatus"])
		assert.False(t, events[0].OccurredAt.IsZero())
	})

	t.Run("nil sink does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			hub.RecordActivity(ctx, nil, testDeveloper(), hub.ActionLogout, hub.TargetUser, "u", nil)
		})
	})
}
