package hub

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Features is the feature repository surface.
type Features interface {
	FeatureStore
}

type features struct {
	repo repository.Repository[*Feature]
	db   *bun.DB
}

var _ Features = (*features)(nil)

func NewFeaturesRepository(db *bun.DB) Features {
	repo := repository.NewRepository[*Feature](db, repository.ModelHandlers[*Feature]{
		NewRecord: func() *Feature { return &Feature{} },
		GetID: func(f *Feature) uuid.UUID {
			if f == nil {
				return uuid.Nil
			}
			return f.ID
		},
		SetID: func(f *Feature, id uuid.UUID) {
			if f != nil {
				f.ID = id
			}
		},
	})

	return &features{
		repo: repo,
		db:   db,
	}
}

func (f *features) GetByID(ctx context.Context, id uuid.UUID) (*Feature, error) {
	return f.repo.GetByID(ctx, id.String())
}

func (f *features) Create(ctx context.Context, record *Feature) (*Feature, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return f.repo.Create(ctx, record)
}

func (f *features) Update(ctx context.Context, record *Feature) (*Feature, error) {
	return f.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
}

func (f *features) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := f.db.NewDelete().
		Model((*Feature)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}

func (f *features) List(ctx context.Context) ([]*Feature, error) {
	records := []*Feature{}
	err := f.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
