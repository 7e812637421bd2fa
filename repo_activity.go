package hub

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultActivityLimit is the page size when the caller asks for none.
const DefaultActivityLimit = 50

// MaxActivityLimit caps a single page regardless of what was asked for.
const MaxActivityLimit = 100

// ActivityFilter narrows a listing. Zero values mean no constraint.
type ActivityFilter struct {
	ActorID string
	Action  ActionType
	Offset  int
	Limit   int
}

// Activities is the append-only audit log repository surface. There is
// deliberately no update and no delete.
type Activities interface {
	Insert(ctx context.Context, record *ActivityRecord) (*ActivityRecord, error)
	List(ctx context.Context, filter ActivityFilter) ([]*ActivityRecord, error)
	Count(ctx context.Context, filter ActivityFilter) (int, error)
}

type activities struct {
	repo repository.Repository[*ActivityRecord]
	db   *bun.DB
}

var (
	_ Activities    = (*activities)(nil)
	_ ActivityStore = (*activities)(nil)
)

func NewActivitiesRepository(db *bun.DB) Activities {
	repo := repository.NewRepository[*ActivityRecord](db, repository.ModelHandlers[*ActivityRecord]{
		NewRecord: func() *ActivityRecord { return &ActivityRecord{} },
		GetID: func(r *ActivityRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *ActivityRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &activities{
		repo: repo,
		db:   db,
	}
}

// Insert appends one audit record.
func (a *activities) Insert(ctx context.Context, record *ActivityRecord) (*ActivityRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	return a.repo.Create(ctx, record)
}

// List returns audit records newest first, bounded by the filter's page.
func (a *activities) List(ctx context.Context, filter ActivityFilter) ([]*ActivityRecord, error) {
	records := []*ActivityRecord{}

	q := a.db.NewSelect().Model(&records)
	applyActivityFilter(q, filter)

	err := q.
		Order("timestamp DESC").
		Offset(normalizeOffset(filter.Offset)).
		Limit(normalizeLimit(filter.Limit)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Count returns how many records match the filter, ignoring pagination.
func (a *activities) Count(ctx context.Context, filter ActivityFilter) (int, error) {
	q := a.db.NewSelect().Model((*ActivityRecord)(nil))
	applyActivityFilter(q, filter)
	return q.Count(ctx)
}

func applyActivityFilter(q *bun.SelectQuery, filter ActivityFilter) {
	if filter.ActorID != "" {
		q.Where("?TableAlias.actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		q.Where("?TableAlias.action = ?", filter.Action)
	}
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}
