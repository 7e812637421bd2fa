package hub

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reports is the incident report repository surface.
type Reports interface {
	ReportStore
}

type reports struct {
	repo repository.Repository[*IncidentReport]
	db   *bun.DB
}

var _ Reports = (*reports)(nil)

func NewReportsRepository(db *bun.DB) Reports {
	repo := repository.NewRepository[*IncidentReport](db, repository.ModelHandlers[*IncidentReport]{
		NewRecord: func() *IncidentReport { return &IncidentReport{} },
		GetID: func(r *IncidentReport) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *IncidentReport, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &reports{
		repo: repo,
		db:   db,
	}
}

func (r *reports) GetByID(ctx context.Context, id uuid.UUID) (*IncidentReport, error) {
	return r.repo.GetByID(ctx, id.String())
}

func (r *reports) Create(ctx context.Context, record *IncidentReport) (*IncidentReport, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.repo.Create(ctx, record)
}

func (r *reports) Update(ctx context.Context, record *IncidentReport) (*IncidentReport, error) {
	return r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
}

func (r *reports) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*IncidentReport)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}

// List returns reports newest first, optionally narrowed to a status set.
func (r *reports) List(ctx context.Context, statuses []ReportStatus) ([]*IncidentReport, error) {
	records := []*IncidentReport{}

	q := r.db.NewSelect().Model(&records)

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		q.Where("?TableAlias.status IN (?)", bun.In(values))
	}

	err := q.
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
