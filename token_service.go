package codecamp

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the fixed expiry window for issued bearer tokens.
// Configurable through NewTokenService, 15 minutes unless overridden.
const DefaultTokenTTL = 15 * time.Minute

// TokenService issues and validates HMAC-SHA256 signed tokens. Issuance
// and validation read the signing key through the same Keyring, so both
// sides always agree on key material.
type TokenService struct {
	keys     *Keyring
	ttl      time.Duration
	issuer   string
	audience string
	logger   Logger
}

// NewTokenService creates a new TokenService instance. A zero ttl falls
// back to DefaultTokenTTL.
func NewTokenService(keys *Keyring, issuer, audience string, ttl time.Duration, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		keys:     keys,
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
	}
}

// TTL returns the configured expiry window.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue mints a token for a verified identity. Callers own the
// precondition that identity came out of credential verification; Issue
// never checks passwords. The claim set is sub, jti, given_name,
// family_name, email followed by every custom claim as-is.
func (ts *TokenService) Issue(identity Identity, custom []Claim) (string, time.Time, error) {
	return ts.IssueWithTTL(identity, custom, ts.ttl)
}

// IssueWithTTL mints a token with an explicit expiry window. Session
// cookies use this to outlive the short bearer token default.
func (ts *TokenService) IssueWithTTL(identity Identity, custom []Claim, ttl time.Duration) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, errors.New("identity is required", errors.CategoryBadInput)
	}
	if ttl <= 0 {
		ttl = ts.ttl
	}

	now := time.Now().UTC()
	claims := &TokenClaims{
		Issuer:    ts.issuer,
		Audience:  ts.audience,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	claims.
		Append(ClaimSubject, identity.Username()).
		// fresh uuid so two tokens for the same user are never bit-identical
		Append(ClaimTokenID, uuid.NewString()).
		Append(ClaimGivenName, identity.GivenName()).
		Append(ClaimFamilyName, identity.FamilyName()).
		Append(ClaimEmail, identity.Email())

	for _, claim := range custom {
		claims.Append(claim.Type, claim.Value)
	}

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, claims.ExpiresAt, nil
}

// SignClaims signs an assembled claim set using the active signing key.
func (ts *TokenService) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	key := ts.keys.Key()
	if len(key) == 0 {
		return "", ErrMisconfiguredSigningKey
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Validate parses a compact token string and verifies its signature,
// expiry, issuer, and audience. It accepts every token Issue produces
// while the signing key is unchanged.
func (ts *TokenService) Validate(tokenString string) (ClaimSet, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if ts.audience != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.keys.Key(), nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if !token.Valid {
		ts.logger.Error("TokenService validate could not validate claims")
		return nil, ErrUnableToDecodeSession
	}

	return ClaimSet(claims), nil
}

var _ TokenIssuer = (*TokenService)(nil)
var _ TokenValidator = (*TokenService)(nil)
