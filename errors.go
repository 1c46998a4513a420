package codecamp

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrMismatchedHashAndPassword is returned when the password does not match
// the stored hash
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password should not be an empty string")

// ErrMissingCredential rejects empty usernames or passwords without a
// store lookup
var ErrMissingCredential = errors.New("missing credential")

// ErrUnableToFindSession is the error when the request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrMisconfiguredSigningKey is a fatal configuration error: the service
// must not issue tokens until the key is fixed.
var ErrMisconfiguredSigningKey = goerrors.New("signing key is missing or empty", goerrors.CategoryInternal).
	WithTextCode("MISCONFIGURED_SIGNING_KEY").
	WithCode(goerrors.CodeInternal)

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens we cannot parse or verify
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsCredentialError reports whether err is one of the failures we
// deliberately collapse into a generic response at the HTTP edge. Unknown
// usernames and wrong passwords must be indistinguishable to callers.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrIdentityNotFound) ||
		errors.Is(err, ErrMismatchedHashAndPassword) ||
		errors.Is(err, ErrMissingCredential)
}
