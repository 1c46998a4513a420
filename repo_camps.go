package codecamp

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Camps stores camp records. This tier is thin plumbing around bun; the
// auth core never depends on it.
type Camps interface {
	GetByMoniker(ctx context.Context, moniker string) (*Camp, error)
	List(ctx context.Context) ([]*Camp, error)
	CreateCamp(ctx context.Context, record *Camp) (*Camp, error)
	DeleteByMoniker(ctx context.Context, moniker string) error
}

// Speakers stores speaker records.
type Speakers interface {
	repository.Repository[*Speaker]

	ListByCamp(ctx context.Context, campID uuid.UUID) ([]*Speaker, error)
	CreateSpeaker(ctx context.Context, record *Speaker) (*Speaker, error)
}

// Talks stores talk records.
type Talks interface {
	repository.Repository[*Talk]

	ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]*Talk, error)
	CreateTalk(ctx context.Context, record *Talk) (*Talk, error)
}

type camps struct {
	repository.Repository[*Camp]
	db *bun.DB
}

var _ Camps = (*camps)(nil)

func NewCampsRepository(db *bun.DB) Camps {
	repo := repository.NewRepository[*Camp](db, repository.ModelHandlers[*Camp]{
		NewRecord: func() *Camp { return &Camp{} },
		GetID: func(c *Camp) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Camp, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "moniker"
		},
	})

	return &camps{Repository: repo, db: db}
}

func (a *camps) GetByMoniker(ctx context.Context, moniker string) (*Camp, error) {
	record := &Camp{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Speakers").
		Where("?TableAlias.moniker = ?", moniker).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"moniker": moniker,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *camps) CreateCamp(ctx context.Context, record *Camp) (*Camp, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *camps) DeleteByMoniker(ctx context.Context, moniker string) error {
	res, err := a.db.NewDelete().
		Model((*Camp)(nil)).
		Where("moniker = ?", moniker).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"moniker": moniker,
			})
	}

	return nil
}

func (a *camps) List(ctx context.Context) ([]*Camp, error) {
	var records []*Camp
	err := a.db.NewSelect().
		Model(&records).
		Order("cmp.event_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

type speakers struct {
	repository.Repository[*Speaker]
	db *bun.DB
}

var _ Speakers = (*speakers)(nil)

func NewSpeakersRepository(db *bun.DB) Speakers {
	repo := repository.NewRepository[*Speaker](db, repository.ModelHandlers[*Speaker]{
		NewRecord: func() *Speaker { return &Speaker{} },
		GetID: func(s *Speaker) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Speaker, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &speakers{Repository: repo, db: db}
}

func (a *speakers) CreateSpeaker(ctx context.Context, record *Speaker) (*Speaker, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *speakers) ListByCamp(ctx context.Context, campID uuid.UUID) ([]*Speaker, error) {
	var records []*Speaker
	err := a.db.NewSelect().
		Model(&records).
		Relation("Talks").
		Where("?TableAlias.camp_id = ?", campID).
		Order("spk.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

type talks struct {
	repository.Repository[*Talk]
	db *bun.DB
}

var _ Talks = (*talks)(nil)

func NewTalksRepository(db *bun.DB) Talks {
	repo := repository.NewRepository[*Talk](db, repository.ModelHandlers[*Talk]{
		NewRecord: func() *Talk { return &Talk{} },
		GetID: func(t *Talk) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Talk, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &talks{Repository: repo, db: db}
}

func (a *talks) CreateTalk(ctx context.Context, record *Talk) (*Talk, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *talks) ListBySpeaker(ctx context.Context, speakerID uuid.UUID) ([]*Talk, error) {
	var records []*Talk
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.speaker_id = ?", speakerID).
		Order("tlk.title ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
