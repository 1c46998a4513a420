// Package authware guards fiber routes with bearer or session-cookie
// tokens. Its error path reproduces the cookie-middleware redirect
// override: browser traffic gets bounced to the login page, API traffic
// gets a plain 401 with no Location header.
package authware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	codecamp "github.com/goliatone/go-codecamp"
)

var (
	defaultTokenLookup       = "header:" + fiber.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator validates raw tokens; mirrors TokenService.Validate
// without importing the concrete service.
type TokenValidator interface {
	Validate(tokenString string) (codecamp.ClaimSet, error)
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool
	// Validator is required for token validation
	Validator TokenValidator
	// ContextKey is where validated claims land in ctx locals
	ContextKey string
	// TokenLookup is a comma list of sources, e.g.
	// "header:Authorization,cookie:codecamp_session"
	TokenLookup string
	AuthScheme  string
	// APIPrefix marks paths that must receive a 401 instead of the
	// login redirect
	APIPrefix string
	// LoginPath is where unauthenticated browser requests are sent
	LoginPath string
	// ErrorHandler overrides the redirect-override behavior
	ErrorHandler func(*fiber.Ctx, error) error
}

// New returns a fiber middleware that validates the request token and
// stores its claims under cfg.ContextKey.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, cfg.getExtractors())
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// RequireClaim gates a route on a custom claim, e.g. SuperUser=True. A
// missing or mismatched claim takes the same rejected path as a missing
// token: 401 for API calls, redirect for browsers.
func RequireClaim(cfg Config, claimType, claimValue string) fiber.Handler {
	cfg = GetDefaultConfig(cfg)

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c, cfg.ContextKey)
		if !ok || !claims.Has(claimType, claimValue) {
			return cfg.ErrorHandler(c, errors.New("access denied: required claim "+claimType+" not present"))
		}
		return c.Next()
	}
}

// ClaimsFromContext returns the validated claims stored by New.
func ClaimsFromContext(c *fiber.Ctx, key string) (codecamp.ClaimSet, bool) {
	claims, ok := c.Locals(key).(codecamp.ClaimSet)
	return claims, ok
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = RedirectOverrideHandler(cfg)
	}

	if cfg.Validator == nil {
		panic("AUTH: middleware configuration: Validator is required.")
	}

	return cfg
}

// RedirectOverrideHandler is the default rejection path. Session
// middleware wants to redirect unauthenticated requests to the login
// page; for API paths that is wrong, callers expect a 401. The rewrite
// only happens while the response status is still the default 200 —
// a handler that already set an error keeps it. Both the login and the
// access-denied rejections go through here, so they rewrite identically.
func RedirectOverrideHandler(cfg Config) func(*fiber.Ctx, error) error {
	return func(c *fiber.Ctx, err error) error {
		if strings.HasPrefix(c.Path(), cfg.APIPrefix) && c.Response().StatusCode() == fiber.StatusOK {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.Redirect(cfg.LoginPath, fiber.StatusFound)
	}
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ExtractRawToken tries each extractor in order, returning the first
// token found.
func ExtractRawToken(c *fiber.Ctx, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// TokenExtractor pulls a raw token out of a request.
type TokenExtractor func(c *fiber.Ctx) (string, error)

// GetExtractors parses a token lookup list into extractor functions.
// Supported sources: header, cookie, query.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts the token from the
// request header.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// tokenFromCookie returns a function that extracts the token from the
// named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromQuery returns a function that extracts the token from the
// query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
