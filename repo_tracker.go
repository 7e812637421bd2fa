package hub

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tasks is the task repository surface.
type Tasks interface {
	TaskStore
}

type tasks struct {
	repo repository.Repository[*Task]
	db   *bun.DB
}

var _ Tasks = (*tasks)(nil)

func NewTasksRepository(db *bun.DB) Tasks {
	repo := repository.NewRepository[*Task](db, repository.ModelHandlers[*Task]{
		NewRecord: func() *Task { return &Task{} },
		GetID: func(t *Task) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Task, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &tasks{
		repo: repo,
		db:   db,
	}
}

func (t *tasks) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return t.repo.GetByID(ctx, id.String())
}

func (t *tasks) Create(ctx context.Context, record *Task) (*Task, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return t.repo.Create(ctx, record)
}

func (t *tasks) Update(ctx context.Context, record *Task) (*Task, error) {
	return t.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
}

func (t *tasks) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := t.db.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}

func (t *tasks) List(ctx context.Context) ([]*Task, error) {
	records := []*Task{}
	err := t.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Roadmap is the roadmap phase repository surface.
type Roadmap interface {
	RoadmapStore
}

type roadmap struct {
	repo repository.Repository[*RoadmapPhase]
	db   *bun.DB
}

var _ Roadmap = (*roadmap)(nil)

func NewRoadmapRepository(db *bun.DB) Roadmap {
	repo := repository.NewRepository[*RoadmapPhase](db, repository.ModelHandlers[*RoadmapPhase]{
		NewRecord: func() *RoadmapPhase { return &RoadmapPhase{} },
		GetID: func(p *RoadmapPhase) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *RoadmapPhase, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &roadmap{
		repo: repo,
		db:   db,
	}
}

func (r *roadmap) GetByID(ctx context.Context, id uuid.UUID) (*RoadmapPhase, error) {
	return r.repo.GetByID(ctx, id.String())
}

func (r *roadmap) Update(ctx context.Context, record *RoadmapPhase) (*RoadmapPhase, error) {
	return r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
}

func (r *roadmap) List(ctx context.Context) ([]*RoadmapPhase, error) {
	records := []*RoadmapPhase{}
	err := r.db.NewSelect().
		Model(&records).
		Order("sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Pipeline is the pipeline item repository surface.
type Pipeline interface {
	PipelineStore
}

type pipeline struct {
	repo repository.Repository[*PipelineItem]
	db   *bun.DB
}

var _ Pipeline = (*pipeline)(nil)

func NewPipelineRepository(db *bun.DB) Pipeline {
	repo := repository.NewRepository[*PipelineItem](db, repository.ModelHandlers[*PipelineItem]{
		NewRecord: func() *PipelineItem { return &PipelineItem{} },
		GetID: func(p *PipelineItem) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *PipelineItem, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &pipeline{
		repo: repo,
		db:   db,
	}
}

func (p *pipeline) Create(ctx context.Context, record *PipelineItem) (*PipelineItem, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return p.repo.Create(ctx, record)
}

func (p *pipeline) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := p.db.NewDelete().
		Model((*PipelineItem)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)
	return err
}

func (p *pipeline) List(ctx context.Context) ([]*PipelineItem, error) {
	records := []*PipelineItem{}
	err := p.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
