package codecamp_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	codecamp "github.com/goliatone/go-codecamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	id         string
	username   string
	email      string
	givenName  string
	familyName string
}

func (i testIdentity) ID() string         { return i.id }
func (i testIdentity) Username() string   { return i.username }
func (i testIdentity) Email() string      { return i.email }
func (i testIdentity) GivenName() string  { return i.givenName }
func (i testIdentity) FamilyName() string { return i.familyName }

func shawn() testIdentity {
	return testIdentity{
		id:         "d5c5b8a2-0000-0000-0000-000000000001",
		username:   "shawnw",
		email:      "shawn@example.com",
		givenName:  "Shawn",
		familyName: "Wildermuth",
	}
}

func newTokenService(t *testing.T, ttl time.Duration) *codecamp.TokenService {
	t.Helper()
	keys, err := codecamp.NewKeyring("superdupersecretkey")
	require.NoError(t, err)
	return codecamp.NewTokenService(keys, "mycodecamp.io", "http://mycodecamp.io", ttl, nil)
}

func decodePayload(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3, "expected a compact three part token")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	return string(payload)
}

func TestTokenServiceIssue(t *testing.T) {
	svc := newTokenService(t, 0)

	before := time.Now().UTC()
	token, expiration, err := svc.Issue(shawn(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("expiration is issuance plus fifteen minutes", func(t *testing.T) {
		assert.WithinDuration(t, before.Add(codecamp.DefaultTokenTTL), expiration, 5*time.Second)
	})

	t.Run("round trips through validation", func(t *testing.T) {
		claims, err := svc.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, "shawnw", claims.Subject())
		assert.NotEmpty(t, claims.TokenID())
		assert.Equal(t, "Shawn", claims.String(codecamp.ClaimGivenName))
		assert.Equal(t, "Wildermuth", claims.String(codecamp.ClaimFamilyName))
		assert.Equal(t, "shawn@example.com", claims.String(codecamp.ClaimEmail))
	})

	t.Run("every issuance gets a fresh token id", func(t *testing.T) {
		other, _, err := svc.Issue(shawn(), nil)
		require.NoError(t, err)
		assert.NotEqual(t, token, other)

		a, err := svc.Validate(token)
		require.NoError(t, err)
		b, err := svc.Validate(other)
		require.NoError(t, err)
		assert.NotEqual(t, a.TokenID(), b.TokenID())
	})

	t.Run("nil identity is rejected", func(t *testing.T) {
		_, _, err := svc.Issue(nil, nil)
		assert.Error(t, err)
	})
}

func TestTokenServiceCustomClaims(t *testing.T) {
	svc := newTokenService(t, 0)

	custom := []codecamp.Claim{
		{Type: "SuperUser", Value: "True"},
		{Type: codecamp.ClaimEmail, Value: "override@example.com"},
	}

	token, _, err := svc.Issue(shawn(), custom)
	require.NoError(t, err)

	payload := decodePayload(t, token)

	t.Run("custom claims are appended as-is", func(t *testing.T) {
		assert.Contains(t, payload, `"SuperUser":"True"`)
	})

	t.Run("wire payload keeps duplicate claim types", func(t *testing.T) {
		assert.Equal(t, 2, strings.Count(payload, `"email"`), "payload: %s", payload)
		assert.Contains(t, payload, `"email":"shawn@example.com"`)
		assert.Contains(t, payload, `"email":"override@example.com"`)
	})

	t.Run("decoded claim set keeps the last duplicate value", func(t *testing.T) {
		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "override@example.com", claims.String(codecamp.ClaimEmail))
		assert.True(t, claims.Has("SuperUser", "True"))
	})
}

func TestTokenServiceValidate(t *testing.T) {
	svc := newTokenService(t, 0)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.Error(t, err)
		assert.True(t, codecamp.IsMalformedError(err), "got: %v", err)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		short := newTokenService(t, time.Millisecond)
		token, _, err := short.Issue(shawn(), nil)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = short.Validate(token)
		require.Error(t, err)
		assert.True(t, codecamp.IsTokenExpiredError(err), "got: %v", err)
	})

	t.Run("rejects tokens signed with a different key", func(t *testing.T) {
		otherKeys, err := codecamp.NewKeyring("some-other-secret")
		require.NoError(t, err)
		other := codecamp.NewTokenService(otherKeys, "mycodecamp.io", "http://mycodecamp.io", 0, nil)

		token, _, err := other.Issue(shawn(), nil)
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.Error(t, err)
	})

	t.Run("key reload invalidates outstanding tokens", func(t *testing.T) {
		keys, err := codecamp.NewKeyring("initial-secret")
		require.NoError(t, err)
		rotated := codecamp.NewTokenService(keys, "mycodecamp.io", "http://mycodecamp.io", 0, nil)

		token, _, err := rotated.Issue(shawn(), nil)
		require.NoError(t, err)

		_, err = rotated.Validate(token)
		require.NoError(t, err)

		require.NoError(t, keys.Reload("rotated-secret"))

		_, err = rotated.Validate(token)
		assert.Error(t, err, "old-key tokens must fail after rotation")

		// new issuances sign and verify under the fresh key
		fresh, _, err := rotated.Issue(shawn(), nil)
		require.NoError(t, err)
		_, err = rotated.Validate(fresh)
		assert.NoError(t, err)
	})
}

func TestTokenServiceSessionTTL(t *testing.T) {
	svc := newTokenService(t, 0)

	before := time.Now().UTC()
	_, expiration, err := svc.IssueWithTTL(shawn(), nil, 24*time.Hour)
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(24*time.Hour), expiration, 5*time.Second)
}
