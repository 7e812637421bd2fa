package hub

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Activities() Activities
	Features() Features
	Reports() Reports
	Tasks() Tasks
	Roadmap() Roadmap
	Pipeline() Pipeline
}

type mngr struct {
	db         *bun.DB
	users      Users
	activities Activities
	features   Features
	reports    Reports
	tasks      Tasks
	roadmap    Roadmap
	pipeline   Pipeline
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		users:      NewUsersRepository(db),
		activities: NewActivitiesRepository(db),
		features:   NewFeaturesRepository(db),
		reports:    NewReportsRepository(db),
		tasks:      NewTasksRepository(db),
		roadmap:    NewRoadmapRepository(db),
		pipeline:   NewPipelineRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.activities == nil {
		return errors.New("repository activities should be initialized")
	}

	if m.features == nil {
		return errors.New("repository features should be initialized")
	}

	if m.reports == nil {
		return errors.New("repository reports should be initialized")
	}

	if m.tasks == nil || m.roadmap == nil || m.pipeline == nil {
		return errors.New("tracker repositories should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Activities() Activities {
	return m.activities
}

func (m mngr) Features() Features {
	return m.features
}

func (m mngr) Reports() Reports {
	return m.reports
}

func (m mngr) Tasks() Tasks {
	return m.tasks
}

func (m mngr) Roadmap() Roadmap {
	return m.roadmap
}

func (m mngr) Pipeline() Pipeline {
	return m.pipeline
}
