package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	codecamp "github.com/goliatone/go-codecamp"
	"github.com/goliatone/go-codecamp/config"
	"github.com/goliatone/go-codecamp/middleware/authware"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("codecamp"),
		glog.WithAddSource(false),
	)

	configPath := os.Getenv("CODECAMP_CONFIG")
	if configPath == "" {
		configPath = "app.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	db, err := openDatabase(cfg.Database.DSN)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err := createSchema(ctx, db); err != nil {
		panic(err)
	}

	repo := codecamp.NewRepositoryManager(db)
	repo.MustValidate()

	// An empty signing key must stop the process here, before any
	// request can ask for a token.
	keys, err := codecamp.NewKeyring(cfg.Tokens.Key)
	if err != nil {
		panic(err)
	}

	tokens := codecamp.NewTokenService(
		keys,
		cfg.Tokens.Issuer,
		cfg.Tokens.Audience,
		cfg.Tokens.GetTTL(),
		lgr.GetLogger("tokens"),
	)

	provider := codecamp.NewUserProvider(repo.Users()).
		WithLogger(lgr.GetLogger("auth"))

	sessions := codecamp.NewSessionManager(tokens).
		WithCookieName(cfg.Session.CookieName).
		WithTTL(cfg.Session.GetTTL()).
		WithLogger(lgr.GetLogger("session"))

	if cfg.Seed.AdminPassword != "" {
		if err := codecamp.Seed(ctx, repo, codecamp.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminEmail:    cfg.Seed.AdminEmail,
		}); err != nil {
			panic(err)
		}
	}

	engine := django.New(cfg.Server.ViewsDir, ".html")

	app := fiber.New(fiber.Config{
		AppName: "go-codecamp",
		Views:   engine,
	})

	codecamp.RegisterAuthRoutes(app,
		codecamp.WithAuthVerifier(provider),
		codecamp.WithAuthTokens(tokens),
		codecamp.WithAuthSessions(sessions),
		codecamp.WithAuthLogger(lgr.GetLogger("auth")),
	)

	wareCfg := authware.Config{
		Validator:   tokens,
		TokenLookup: "header:Authorization,cookie:" + sessions.CookieName(),
		APIPrefix:   cfg.Server.APIPrefix,
		LoginPath:   "/login",
	}
	protect := authware.New(wareCfg)
	superuser := authware.RequireClaim(wareCfg, "SuperUser", "True")

	api := app.Group(cfg.Server.APIPrefix + "/v1")
	campsCtl := codecamp.NewCampsController(repo, lgr.GetLogger("camps"))
	campsCtl.RegisterCampRoutes(api, protect, superuser)

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
		}
	}()

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		lgr.GetLogger("http").Error("shutdown error", "error", err)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*codecamp.User)(nil),
		(*codecamp.UserClaim)(nil),
		(*codecamp.Camp)(nil),
		(*codecamp.Speaker)(nil),
		(*codecamp.Talk)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func waitExitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
