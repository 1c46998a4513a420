package codecamp

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultSessionCookie is the cookie carrying the session token.
const DefaultSessionCookie = "codecamp_session"

// DefaultSessionTTL bounds the session token baked into the cookie. The
// cookie itself carries no expiry so the browser discards it when the
// session ends; the token lifetime caps how long a stolen cookie works.
const DefaultSessionTTL = 24 * time.Hour

// SessionManager establishes and tears down cookie sessions. Sign-in
// leaves a signed session token in an HTTPOnly cookie; it never persists
// past the browser session and failed attempts never lock the account.
type SessionManager struct {
	tokens     *TokenService
	cookieName string
	ttl        time.Duration
	logger     Logger
}

func NewSessionManager(tokens *TokenService) *SessionManager {
	return &SessionManager{
		tokens:     tokens,
		cookieName: DefaultSessionCookie,
		ttl:        DefaultSessionTTL,
		logger:     defLogger{},
	}
}

func (s *SessionManager) WithCookieName(name string) *SessionManager {
	if name != "" {
		s.cookieName = name
	}
	return s
}

func (s *SessionManager) WithTTL(ttl time.Duration) *SessionManager {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

func (s *SessionManager) WithLogger(l Logger) *SessionManager {
	if l != nil {
		s.logger = l
	}
	return s
}

// CookieName returns the session cookie name, used by the middleware for
// token lookup.
func (s *SessionManager) CookieName() string {
	return s.cookieName
}

// SignIn mints a session token for a verified identity and sets the
// session cookie. No Expires on the cookie: it lives for the browser
// session only.
func (s *SessionManager) SignIn(c *fiber.Ctx, identity Identity, custom []Claim) error {
	token, _, err := s.tokens.IssueWithTTL(identity, custom, s.ttl)
	if err != nil {
		s.logger.Error("SignIn failed to mint session token", "error", err)
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

// SignOut expires the session cookie.
func (s *SessionManager) SignOut(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
