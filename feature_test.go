package hub_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

// featureStoreStub is a function-backed hub.FeatureStore.
type featureStoreStub struct {
	getByID func(ctx context.Context, id uuid.UUID) (*hub.Feature, error)
	create  func(ctx context.Context, record *hub.Feature) (*hub.Feature, error)
	update  func(ctx context.Context, record *hub.Feature) (*hub.Feature, error)
	delete  func(ctx context.Context, id uuid.UUID) error
	list    func(ctx context.Context) ([]*hub.Feature, error)
}

func (s featureStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*hub.Feature, error) {
	return s.getByID(ctx, id)
}

func (s featureStoreStub) Create(ctx context.Context, record *hub.Feature) (*hub.Feature, error) {
	if s.create != nil {
		return s.create(ctx, record)
	}
	return record, nil
}

func (s featureStoreStub) Update(ctx context.Context, record *hub.Feature) (*hub.Feature, error) {
	if s.update != nil {
		return s.update(ctx, record)
	}
	return record, nil
}

func (s featureStoreStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.delete != nil {
		return s.delete(ctx, id)
	}
	return nil
}

func (s featureStoreStub) List(ctx context.Context) ([]*hub.Feature, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func TestIsValidFeatureStatus(t *testing.T) {
	assert.True(t, hub.IsValidFeatureStatus(hub.StatusOperational))
	assert.True(t, hub.IsValidFeatureStatus(hub.StatusDegraded))
	assert.True(t, hub.IsValidFeatureStatus(hub.StatusCritical))
	assert.False(t, hub.IsValidFeatureStatus("down"))
	assert.False(t, hub.IsValidFeatureStatus(""))
}

func TestFeatureService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds the first history entry", func(t *testing.T) {
		service := hub.NewFeatureService(featureStoreStub{}, nil)
		actor := testManager()

		created, err := service.Create(ctx, actor, &hub.Feature{
			Name:   "search",
			Status: hub.StatusDegraded,
		})

		assert.NoError(t, err)
		assert.Len(t, created.History, 1)
		assert.Equal(t, time.Now().Format(hub.HistoryDateLayout), created.History[0].Date)
		assert.Equal(t, hub.StatusDegraded, created.History[0].Status)
		assert.NotNil(t, created.LastUpdatedBy)
		assert.Equal(t, actor.ID(), created.LastUpdatedBy.ID)
	})

	t.Run("defaults a blank status to operational", func(t *testing.T) {
		service := hub.NewFeatureService(featureStoreStub{}, nil)

		created, err := service.Create(ctx, testManager(), &hub.Feature{Name: "billing"})

		assert.NoError(t, err)
		assert.Equal(t, hub.StatusOperational, created.Status)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		service := hub.NewFeatureService(featureStoreStub{}, nil)

		_, err := service.Create(ctx, testManager(), &hub.Feature{
			Name:   "billing",
			Status: "offline",
		})

		assert.Error(t, err)
	})
}

func TestFeatureService_Update(t *testing.T) {
	ctx := context.Background()
	featureID := uuid.New()

	existing := func() *hub.Feature {
		return &hub.Feature{
			ID:     featureID,
			Name:   "search",
			Status: hub.StatusOperational,
			History: []hub.StatusHistoryEntry{
				{Date: "2026-01-01", Status: hub.StatusOperational},
			},
		}
	}

	status := func(s hub.FeatureStatus) *hub.FeatureStatus { return &s }

	t.Run("audits only when the status value changed", func(t *testing.T) {
		sink := &captureSink{}
		store := featureStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Feature, error) { return existing(), nil },
		}
		service := hub.NewFeatureService(store, sink)
		actor := testDeveloper()

		updated, err := service.Update(ctx, actor, featureID, hub.FeaturePatch{
			Status: status(hub.StatusCritical),
		})

		assert.NoError(t, err)
		assert.Equal(t, hub.StatusCritical, updated.Status)

		events := sink.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, hub.ActionFeatureStatusUpdate, events[0].Action)
		assert.Equal(t, hub.TargetFeature, events[0].TargetType)
		assert.Equal(t, featureID.String(), events[0].TargetID)
		assert.Equal(t, hub.StatusOperational, events[0].Details["oldStatus"])
		assert.Equal(t, hub.StatusCritical, events[0].Details["newStatus"])
		assert.Equal(t, actor.ID(), events[0].Actor.ID)
	})

	t.Run("same status folds into history without an audit entry", func(t *testing.T) {
		sink := &captureSink{}
		store := featureStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Feature, error) { return existing(), nil },
		}
		service := hub.NewFeatureService(store, sink)

		updated, err := service.Update(ctx, testDeveloper(), featureID, hub.FeaturePatch{
			Status: status(hub.StatusOperational),
		})

		assert.NoError(t, err)
		assert.Empty(t, sink.Events())
		// Today's entry still exists even though nothing changed.
		today := time.Now().Format(hub.HistoryDateLayout)
		assert.Equal(t, today, updated.History[len(updated.History)-1].Date)
	})

	t.Run("no audit entry when the persist fails", func(t *testing.T) {
		sink := &captureSink{}
		store := featureStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Feature, error) { return existing(), nil },
			update: func(context.Context, *hub.Feature) (*hub.Feature, error) {
				return nil, errors.New("write failed")
			},
		}
		service := hub.NewFeatureService(store, sink)

		_, err := service.Update(ctx, testDeveloper(), featureID, hub.FeaturePatch{
			Status: status(hub.StatusDegraded),
		})

		assert.Error(t, err)
		assert.Empty(t, sink.Events())
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		store := featureStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Feature, error) { return existing(), nil },
		}
		service := hub.NewFeatureService(store, nil)

		_, err := service.Update(ctx, testDeveloper(), featureID, hub.FeaturePatch{
			Status: status("offline"),
		})

		assert.Error(t, err)
	})

	t.Run("name and description patch without status leaves history alone", func(t *testing.T) {
		sink := &captureSink{}
		store := featureStoreStub{
			getByID: func(context.Context, uuid.UUID) (*hub.Feature, error) { return existing(), nil },
		}
		service := hub.NewFeatureService(store, sink)

		name := "search v2"
		updated, err := service.Update(ctx, testDeveloper(), featureID, hub.FeaturePatch{
			Name: &name,
		})

		assert.NoError(t, err)
		assert.Equal(t, "search v2", updated.Name)
		assert.Len(t, updated.History, 1)
		assert.Empty(t, sink.Events())
	})
}
