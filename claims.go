package codecamp

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Registered claim types used by the token issuer.
const (
	ClaimSubject    = "sub"
	ClaimTokenID    = "jti"
	ClaimGivenName  = "given_name"
	ClaimFamilyName = "family_name"
	ClaimEmail      = "email"
)

// Claim is a single (type, value) fact bound to a principal.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// TokenClaims is the payload of an issued token. The claim list keeps
// insertion order and is serialized as-is: a custom claim that repeats a
// fixed claim type produces a duplicate key in the payload. We never
// deduplicate; consumers that collapse duplicates keep the last value.
type TokenClaims struct {
	Set       []Claim
	Issuer    string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var (
	_ jwt.Claims     = (*TokenClaims)(nil)
	_ json.Marshaler = (*TokenClaims)(nil)
)

// Append adds a claim preserving order and duplicates.
func (c *TokenClaims) Append(claimType, value string) *TokenClaims {
	c.Set = append(c.Set, Claim{Type: claimType, Value: value})
	return c
}

// First returns the first claim value of the given type.
func (c *TokenClaims) First(claimType string) string {
	for _, claim := range c.Set {
		if claim.Type == claimType {
			return claim.Value
		}
	}
	return ""
}

// MarshalJSON writes the payload by hand so ordering and duplicate claim
// types survive serialization; encoding/json maps would collapse them.
func (c *TokenClaims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(name string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, claim := range c.Set {
		if err := write(claim.Type, claim.Value); err != nil {
			return nil, err
		}
	}

	if !c.ExpiresAt.IsZero() {
		if err := write("exp", c.ExpiresAt.Unix()); err != nil {
			return nil, err
		}
	}
	if !c.IssuedAt.IsZero() {
		if err := write("iat", c.IssuedAt.Unix()); err != nil {
			return nil, err
		}
	}
	if c.Issuer != "" {
		if err := write("iss", c.Issuer); err != nil {
			return nil, err
		}
	}
	if c.Audience != "" {
		if err := write("aud", c.Audience); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt.IsZero() {
		return nil, nil
	}
	return jwt.NewNumericDate(c.ExpiresAt), nil
}

func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt.IsZero() {
		return nil, nil
	}
	return jwt.NewNumericDate(c.IssuedAt), nil
}

func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c *TokenClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c *TokenClaims) GetSubject() (string, error) {
	return c.First(ClaimSubject), nil
}

func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	if c.Audience == "" {
		return nil, nil
	}
	return jwt.ClaimStrings{c.Audience}, nil
}

// ClaimSet holds the decoded claims of a validated token. Decoding goes
// through a JSON object, so duplicate claim types collapse to the last
// value here even though the serialized payload kept both.
type ClaimSet map[string]any

// Subject returns the sub claim.
func (cs ClaimSet) Subject() string {
	return cs.String(ClaimSubject)
}

// TokenID returns the jti claim.
func (cs ClaimSet) TokenID() string {
	return cs.String(ClaimTokenID)
}

// String returns the named claim as a string, or "" when absent or not
// a string.
func (cs ClaimSet) String(claimType string) string {
	v, ok := cs[claimType]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Has reports whether the named claim is present with the given value.
func (cs ClaimSet) Has(claimType, value string) bool {
	return cs.String(claimType) == value
}
