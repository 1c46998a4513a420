// Package config loads the application configuration from a JSON file
// with CODECAMP_ environment overrides.
package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CODECAMP_"

type App struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"database"`
	Tokens   Tokens   `koanf:"tokens"`
	Session  Session  `koanf:"session"`
	Seed     Seed     `koanf:"seed"`
}

type Server struct {
	Addr      string `koanf:"addr"`
	ViewsDir  string `koanf:"views_dir"`
	APIPrefix string `koanf:"api_prefix"`
	Debug     bool   `koanf:"debug"`
}

type Database struct {
	DSN string `koanf:"dsn"`
}

// Tokens carries the signing configuration. Key is the shared secret:
// it must match between issuance and validation or every outstanding
// token becomes unverifiable.
type Tokens struct {
	Key           string `koanf:"key"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
	TTLExpression string `koanf:"ttl"`
}

// GetTTL parses the TTL expression, defaulting to 15 minutes.
func (t Tokens) GetTTL() time.Duration {
	if t.TTLExpression == "" {
		return 15 * time.Minute
	}
	dur, err := time.ParseDuration(t.TTLExpression)
	if err != nil {
		return 15 * time.Minute
	}
	return dur
}

type Session struct {
	CookieName    string `koanf:"cookie_name"`
	TTLExpression string `koanf:"ttl"`
}

func (s Session) GetTTL() time.Duration {
	if s.TTLExpression == "" {
		return 24 * time.Hour
	}
	dur, err := time.ParseDuration(s.TTLExpression)
	if err != nil {
		return 24 * time.Hour
	}
	return dur
}

type Seed struct {
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`
	AdminEmail    string `koanf:"admin_email"`
}

// Validate fails fast on configuration the service cannot run with. A
// missing signing key must stop startup, never turn into per-request
// failures.
func (a App) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Tokens, validation.Required),
	)
}

func (t Tokens) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Key, validation.Required),
		validation.Field(&t.Issuer, validation.Required),
		validation.Field(&t.Audience, validation.Required),
	)
}

// Load reads the JSON config file, applies CODECAMP_* environment
// overrides (CODECAMP_TOKENS__KEY maps to tokens.key, double underscore
// nests so keys like views_dir survive), fills defaults, and validates
// the result.
func Load(path string) (*App, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return nil, err
	}

	cfg := &App{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (a *App) fillDefaults() {
	if a.Server.Addr == "" {
		a.Server.Addr = ":8088"
	}
	if a.Server.ViewsDir == "" {
		a.Server.ViewsDir = "./views"
	}
	if a.Server.APIPrefix == "" {
		a.Server.APIPrefix = "/api"
	}
	if a.Database.DSN == "" {
		a.Database.DSN = "file:codecamp.db?cache=shared&mode=rwc"
	}
	if a.Session.CookieName == "" {
		a.Session.CookieName = "codecamp_session"
	}
	if a.Seed.AdminUsername == "" {
		a.Seed.AdminUsername = "admin"
	}
}
