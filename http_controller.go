package codecamp

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// RegisterAuthRoutes mounts the auth endpoints on the given router.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Token, controller.TokenPost)
	app.Get(controller.Routes.Logout, controller.LogOut)
	app.Get(controller.Routes.LoginPage, controller.LoginShow)
}

type AuthControllerRoutes struct {
	Login     string
	Token     string
	Logout    string
	LoginPage string
}

type AuthControllerViews struct {
	Login string
}

type AuthController struct {
	Debug    bool
	Logger   Logger
	Verifier IdentityVerifier
	Tokens   *TokenService
	Sessions *SessionManager
	Routes   *AuthControllerRoutes
	Views    *AuthControllerViews
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:     "/auth/login",
			Token:     "/auth/token",
			Logout:    "/logout",
			LoginPage: "/login",
		},
		Views: &AuthControllerViews{
			Login: "login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Verifier == nil {
		panic("Missing IdentityVerifier in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	if c.Sessions == nil {
		panic("Missing SessionManager in auth controller...")
	}

	return c
}

func WithAuthVerifier(v IdentityVerifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Verifier = v
		return c
	}
}

func WithAuthTokens(ts *TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = ts
		return c
	}
}

func WithAuthSessions(s *SessionManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sessions = s
		return c
	}
}

func WithAuthLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = l
		return c
	}
}

// CredentialPayload is the login body. The password never leaves this
// request: not persisted, not logged.
type CredentialPayload struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r CredentialPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// TokenResponse is the /auth/token success body.
type TokenResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// LoginPost signs the user in and leaves a session cookie. Success is a
// bare 200; every failure collapses into a bare 400 so callers cannot
// tell an unknown username from a wrong password or a store fault.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(CredentialPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("Login failed to parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]any{"username": payload.Username}))
		fmt.Println("=========================")
	}

	identity, err := a.Verifier.VerifyIdentity(c.Context(), payload.Username, payload.Password)
	if err != nil {
		if IsCredentialError(err) {
			a.Logger.Info("Login rejected", "username", payload.Username)
		} else {
			a.Logger.Error("Login verification fault", "error", err)
		}
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	custom, err := a.Verifier.CustomClaims(c.Context(), identity)
	if err != nil {
		a.Logger.Error("Login failed to resolve custom claims", "error", err)
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	if err := a.Sessions.SignIn(c, identity, custom); err != nil {
		a.Logger.Error("Login failed to establish session", "error", err)
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	return c.Status(fiber.StatusOK).Send(nil)
}

// TokenPost issues a bearer token for valid credentials. The failure body
// is a fixed string: unknown usernames, bad passwords, and store faults
// all read the same from outside.
func (a *AuthController) TokenPost(c *fiber.Ctx) error {
	payload := new(CredentialPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("Token failed to parse payload", "error", err)
		return a.tokenFailure(c)
	}

	if err := payload.Validate(); err != nil {
		return a.tokenFailure(c)
	}

	identity, err := a.Verifier.VerifyIdentity(c.Context(), payload.Username, payload.Password)
	if err != nil {
		if IsCredentialError(err) {
			a.Logger.Info("Token request rejected", "username", payload.Username)
		} else {
			a.Logger.Error("Token verification fault", "error", err)
		}
		return a.tokenFailure(c)
	}

	custom, err := a.Verifier.CustomClaims(c.Context(), identity)
	if err != nil {
		a.Logger.Error("Token failed to resolve custom claims", "error", err)
		return a.tokenFailure(c)
	}

	token, expiration, err := a.Tokens.Issue(identity, custom)
	if err != nil {
		a.Logger.Error("Token issuance failed", "error", err)
		return a.tokenFailure(c)
	}

	return c.JSON(TokenResponse{
		Token:      token,
		Expiration: expiration.UTC(),
	})
}

func (a *AuthController) tokenFailure(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).SendString("Failed to generate token")
}

func (a *AuthController) LogOut(c *fiber.Ctx) error {
	a.Sessions.SignOut(c)
	return c.Redirect(a.Routes.LoginPage, fiber.StatusSeeOther)
}

func (a *AuthController) LoginShow(c *fiber.Ctx) error {
	return c.Render(a.Views.Login, fiber.Map{
		"errors": nil,
		"record": nil,
	})
}
