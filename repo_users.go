package codecamp

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user record store consumed by the credential verifier.
type Users interface {
	repository.Repository[*User]

	GetByUsername(ctx context.Context, username string) (*User, error)
	ClaimsForUser(ctx context.Context, userID string) ([]Claim, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	AddClaim(ctx context.Context, userID uuid.UUID, claimType, claimValue string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByUsername fetches a user by exact username match. Case sensitivity
// is whatever the column collation says; we do not normalize.
func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

// ClaimsForUser returns the custom claims attached to a user. Duplicate
// claim types come back as stored; the token issuer never deduplicates.
func (a *users) ClaimsForUser(ctx context.Context, userID string) ([]Claim, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var records []*UserClaim
	err = a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", id).
		Order("uclm.claim_type ASC", "uclm.claim_value ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, 0, len(records))
	for _, record := range records {
		claims = append(claims, Claim{Type: record.ClaimType, Value: record.ClaimValue})
	}

	return claims, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) AddClaim(ctx context.Context, userID uuid.UUID, claimType, claimValue string) error {
	claim := &UserClaim{
		ID:         uuid.New(),
		UserID:     userID,
		ClaimType:  claimType,
		ClaimValue: claimValue,
	}

	_, err := a.db.NewInsert().Model(claim).Exec(ctx)
	return err
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
}
