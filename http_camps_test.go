package codecamp_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	codecamp "github.com/goliatone/go-codecamp"
	"github.com/goliatone/go-codecamp/middleware/authware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type campsFixture struct {
	app    *fiber.App
	repo   codecamp.RepositoryManager
	tokens *codecamp.TokenService
}

func newCampsTestApp(t *testing.T) campsFixture {
	t.Helper()

	repo := setupRepos(t)
	require.NoError(t, codecamp.Seed(context.Background(), repo, codecamp.SeedOptions{
		AdminUsername: "admin",
		AdminPassword: "P@ssw0rd!",
	}))

	keys, err := codecamp.NewKeyring("superdupersecretkey")
	require.NoError(t, err)
	tokens := codecamp.NewTokenService(keys, "mycodecamp.io", "http://mycodecamp.io", 0, nil)

	cfg := authware.Config{Validator: tokens}
	protect := authware.New(cfg)
	superuser := authware.RequireClaim(cfg, "SuperUser", "True")

	app := fiber.New()
	api := app.Group("/api/v1")
	codecamp.NewCampsController(repo, nil).RegisterCampRoutes(api, protect, superuser)

	return campsFixture{app: app, repo: repo, tokens: tokens}
}

func (f campsFixture) bearer(t *testing.T, custom []codecamp.Claim) string {
	t.Helper()
	token, _, err := f.tokens.Issue(identityFor("admin"), custom)
	require.NoError(t, err)
	return "Bearer " + token
}

func identityFor(username string) codecamp.Identity {
	return testIdentity{
		id:       "00000000-0000-0000-0000-000000000042",
		username: username,
	}
}

func TestCampRoutesReads(t *testing.T) {
	f := newCampsTestApp(t)

	t.Run("list is open", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/camps", nil)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var camps []map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&camps))
		require.Len(t, camps, 1)
		assert.Equal(t, "ATL2026", camps[0]["moniker"])
	})

	t.Run("get by moniker embeds speakers", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/camps/ATL2026", nil)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var camp map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&camp))
		assert.Equal(t, "Atlanta Code Camp", camp["name"])
		assert.NotEmpty(t, camp["speakers"])
	})

	t.Run("unknown moniker", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/camps/NOPE", nil)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})

	t.Run("speaker talks", func(t *testing.T) {
		camp, err := f.repo.Camps().GetByMoniker(context.Background(), "ATL2026")
		require.NoError(t, err)
		require.NotEmpty(t, camp.Speakers)

		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/speakers/"+camp.Speakers[0].ID.String()+"/talks", nil)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, res.StatusCode)

		var talks []map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&talks))
		require.Len(t, talks, 1)
		assert.Equal(t, "Writing Sane Web APIs", talks[0]["title"])
	})

	t.Run("bad speaker id", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/speakers/not-a-uuid/talks", nil)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestCampRoutesMutations(t *testing.T) {
	f := newCampsTestApp(t)

	t.Run("create requires a token and gets 401 not a redirect", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/camps", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Empty(t, res.Header.Get("Location"))
	})

	t.Run("create with token", func(t *testing.T) {
		body := `{"moniker":"SEA2027","name":"Seattle Code Camp","location":"Seattle, WA"}`
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/camps", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(fiber.HeaderAuthorization, f.bearer(t, nil))
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, res.StatusCode)

		var camp map[string]any
		require.NoError(t, json.NewDecoder(res.Body).Decode(&camp))
		assert.Equal(t, "SEA2027", camp["moniker"])
	})

	t.Run("create rejects invalid payloads", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/camps", strings.NewReader(`{"moniker":"X"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(fiber.HeaderAuthorization, f.bearer(t, nil))
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("delete requires the SuperUser claim", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/camps/ATL2026", nil)
		req.Header.Set(fiber.HeaderAuthorization, f.bearer(t, nil))
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("delete as superuser", func(t *testing.T) {
		auth := f.bearer(t, []codecamp.Claim{{Type: "SuperUser", Value: "True"}})

		req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/camps/ATL2026", nil)
		req.Header.Set(fiber.HeaderAuthorization, auth)
		res, err := f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, res.StatusCode)

		req = httptest.NewRequest(fiber.MethodDelete, "/api/v1/camps/ATL2026", nil)
		req.Header.Set(fiber.HeaderAuthorization, auth)
		res, err = f.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}
