package codecamp

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of a verified principal
type Identity interface {
	ID() string
	Username() string
	Email() string
	GivenName() string
	FamilyName() string
}

// IdentityVerifier checks credentials and resolves the custom claims
// attached to a principal
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, username, password string) (Identity, error)
	CustomClaims(ctx context.Context, identity Identity) ([]Claim, error)
}

// UserStore is the user record store the verifier reads from
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	ClaimsForUser(ctx context.Context, userID string) ([]Claim, error)
}

// TokenIssuer mints signed bearer tokens for verified identities
type TokenIssuer interface {
	Issue(identity Identity, custom []Claim) (string, time.Time, error)
}

// TokenValidator validates raw tokens and extracts claims without tying
// callers to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (ClaimSet, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CAMP "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CAMP "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CAMP "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CAMP "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
