package codecamp

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider verifies credentials against the user store. Lookups are
// read-only: no attempt counters, no lockout, no mutation of the record.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user by exact username, compare the
// password against the stored hash, and return the identity. Unknown
// usernames and wrong passwords surface as distinct sentinels for
// internal logging; the HTTP edge collapses them into one response.
// The plaintext password is never logged.
func (u *UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredential
	}

	user, err := u.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		u.logger.Error("VerifyIdentity store lookup failed", "username", username)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return userIdentity{
		id:         user.ID.String(),
		username:   user.Username,
		email:      user.Email,
		givenName:  user.FirstName,
		familyName: user.LastName,
	}, nil
}

// CustomClaims resolves the additional claims attached to a verified
// identity, e.g. SuperUser=True.
func (u *UserProvider) CustomClaims(ctx context.Context, identity Identity) ([]Claim, error) {
	if identity == nil {
		return nil, ErrIdentityNotFound
	}

	claims, err := u.store.ClaimsForUser(ctx, identity.ID())
	if err != nil {
		u.logger.Error("CustomClaims store lookup failed", "user_id", identity.ID())
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user claims")
	}

	return claims, nil
}

type userIdentity struct {
	id         string
	username   string
	email      string
	givenName  string
	familyName string
}

func (a userIdentity) ID() string {
	return a.id
}

func (a userIdentity) Username() string {
	return a.username
}

func (a userIdentity) Email() string {
	return a.email
}

func (a userIdentity) GivenName() string {
	return a.givenName
}

func (a userIdentity) FamilyName() string {
	return a.familyName
}

var _ Identity = userIdentity{}
var _ IdentityVerifier = (*UserProvider)(nil)
