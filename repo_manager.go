package codecamp

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
	Camps() Camps
	Speakers() Speakers
	Talks() Talks
}

type mngr struct {
	db       *bun.DB
	users    Users
	camps    Camps
	speakers Speakers
	talks    Talks
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		users:    NewUsersRepository(db),
		camps:    NewCampsRepository(db),
		speakers: NewSpeakersRepository(db),
		talks:    NewTalksRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.camps == nil {
		return errors.New("repository camps should be initialized")
	}

	if m.speakers == nil {
		return errors.New("repository speakers should be initialized")
	}

	if m.talks == nil {
		return errors.New("repository talks should be initialized")
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

func (m mngr) Camps() Camps {
	return m.camps
}

func (m mngr) Speakers() Speakers {
	return m.speakers
}

func (m mngr) Talks() Talks {
	return m.talks
}
