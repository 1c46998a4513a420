package codecamp_test

import (
	"strings"
	"testing"
	"time"

	codecamp "github.com/goliatone/go-codecamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClaimsMarshalOrder(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	claims := &codecamp.TokenClaims{
		Issuer:    "mycodecamp.io",
		Audience:  "http://mycodecamp.io",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(15 * time.Minute),
	}

	claims.
		Append(codecamp.ClaimSubject, "shawnw").
		Append(codecamp.ClaimTokenID, "a-token-id").
		Append(codecamp.ClaimGivenName, "Shawn").
		Append(codecamp.ClaimFamilyName, "Wildermuth").
		Append(codecamp.ClaimEmail, "shawn@example.com")

	payload, err := claims.MarshalJSON()
	require.NoError(t, err)

	body := string(payload)

	// claims appear in insertion order, registered claims trail
	order := []string{`"sub"`, `"jti"`, `"given_name"`, `"family_name"`, `"email"`, `"exp"`, `"iat"`, `"iss"`, `"aud"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(body, key)
		require.NotEqual(t, -1, idx, "payload missing %s", key)
		assert.Greater(t, idx, last, "%s out of order in %s", key, body)
		last = idx
	}

	assert.Contains(t, body, `"sub":"shawnw"`)
	assert.Contains(t, body, `"exp":1772367300`)
}

func TestTokenClaimsMarshalKeepsDuplicates(t *testing.T) {
	claims := &codecamp.TokenClaims{}

	claims.
		Append(codecamp.ClaimSubject, "shawnw").
		Append(codecamp.ClaimEmail, "primary@example.com").
		Append(codecamp.ClaimEmail, "secondary@example.com")

	payload, err := claims.MarshalJSON()
	require.NoError(t, err)

	body := string(payload)
	assert.Equal(t, 2, strings.Count(body, `"email"`), "duplicate claims must not be collapsed: %s", body)

	first := strings.Index(body, `"email":"primary@example.com"`)
	second := strings.Index(body, `"email":"secondary@example.com"`)
	assert.NotEqual(t, -1, first)
	assert.Greater(t, second, first, "duplicates keep insertion order")
}

func TestTokenClaimsFirst(t *testing.T) {
	claims := &codecamp.TokenClaims{}
	claims.
		Append("role", "admin").
		Append("role", "editor")

	assert.Equal(t, "admin", claims.First("role"))
	assert.Equal(t, "", claims.First("missing"))
}

func TestTokenClaimsRegisteredAccessors(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	claims := &codecamp.TokenClaims{
		Issuer:    "mycodecamp.io",
		Audience:  "http://mycodecamp.io",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(15 * time.Minute),
	}
	claims.Append(codecamp.ClaimSubject, "shawnw")

	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "shawnw", sub)

	iss, err := claims.GetIssuer()
	require.NoError(t, err)
	assert.Equal(t, "mycodecamp.io", iss)

	aud, err := claims.GetAudience()
	require.NoError(t, err)
	require.Len(t, aud, 1)
	assert.Equal(t, "http://mycodecamp.io", aud[0])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, issued.Add(15*time.Minute).Unix(), exp.Unix())
}

func TestClaimSetHelpers(t *testing.T) {
	cs := codecamp.ClaimSet{
		"sub":       "shawnw",
		"jti":       "token-id",
		"SuperUser": "True",
		"count":     float64(3),
	}

	assert.Equal(t, "shawnw", cs.Subject())
	assert.Equal(t, "token-id", cs.TokenID())
	assert.True(t, cs.Has("SuperUser", "True"))
	assert.False(t, cs.Has("SuperUser", "False"))
	assert.Equal(t, "", cs.String("count"), "non string claims read as empty")
	assert.Equal(t, "", cs.String("missing"))
}
