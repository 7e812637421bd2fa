package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	hub "github.com/jobpromax/progress-hub"
	"github.com/jobpromax/progress-hub/provider/clerk"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config    *hub.Settings
	bunDB     *bun.DB
	repo      hub.RepositoryManager
	sink      hub.ActivitySink
	auth      hub.Authenticator
	auther    hub.HTTPAuthenticator
	validator hub.TokenValidator
	srv       router.Server[*fiber.App]
	logger    *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("hub"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := hub.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(app); err != nil {
		log.Fatal(err)
	}

	if err := WithAuth(app); err != nil {
		log.Fatal(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(cfg.ListenAddr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	bunDB := bun.NewDB(db, sqlitedialect.New())

	if err := hub.Migrate(ctx, bunDB, app.GetLogger("migrate")); err != nil {
		return err
	}

	repo := hub.NewRepositoryManager(bunDB)
	if err := repo.Validate(); err != nil {
		return err
	}

	app.bunDB = bunDB
	app.repo = repo
	app.sink = hub.NewActivityRecorder(repo.Activities(), app.GetLogger("audit"))

	return nil
}

func WithHTTPServer(app *App) error {
	origins := app.config.AllowedOrigins

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		f := fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		})

		f.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(origins, ","),
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Authorization,Content-Type",
			AllowCredentials: true,
		}))

		return router.DefaultFiberOptions(f)
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	srv.Router().Get("/healthz", func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, router.ViewContext{"ok": true})
	})

	app.srv = srv

	return nil
}

func WithAuth(app *App) error {
	cfg := app.config

	userProvider := hub.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	tokens := hub.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		app.GetLogger("auth:tokens"),
	)

	var validator hub.TokenValidator = tokens

	// When a Clerk issuer is configured, tokens minted there are accepted
	// alongside locally issued ones.
	if cfg.ClerkIssuer != "" {
		clerkValidator, err := clerk.NewTokenValidator(clerk.Config{
			Issuer:  cfg.ClerkIssuer,
			JWKSURL: cfg.ClerkJWKSURL,
		})
		if err != nil {
			return err
		}
		validator = hub.NewMultiTokenValidator(tokens, clerkValidator)
	}

	authenticator := hub.NewAuthenticator(userProvider, cfg)
	authenticator.WithLogger(app.GetLogger("auth"))
	authenticator.WithActivitySink(app.sink)
	authenticator.WithTokenValidator(validator)

	httpAuth, err := hub.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}
	httpAuth.Logger = app.GetLogger("auth:http")

	app.auth = authenticator
	app.auther = httpAuth
	app.validator = validator

	return nil
}

func RegisterRoutes(app *App) {
	r := app.srv.Router()

	authCtrl := hub.NewAuthController(
		hub.WithAuthControllerLogger(app.GetLogger("ctrl:auth")),
		hub.WithAuthControllerAuther(app.auther),
		hub.WithAuthControllerAuthenticator(app.auth),
		hub.WithAuthControllerSink(app.sink),
	)
	hub.RegisterAuthRoutes(r, app.validator, authCtrl)

	usersCtrl := hub.NewUsersController(app.auth, app.repo.Users(), app.sink).
		WithLogger(app.GetLogger("ctrl:users"))
	hub.RegisterUserRoutes(r, app.auther, app.validator, usersCtrl)

	activitiesCtrl := hub.NewActivitiesController(app.auth, app.repo.Activities()).
		WithLogger(app.GetLogger("ctrl:activities"))
	hub.RegisterActivityRoutes(r, app.auther, app.validator, activitiesCtrl)

	features := hub.NewFeatureService(app.repo.Features(), app.sink).
		WithLogger(app.GetLogger("svc:features"))
	featuresCtrl := hub.NewFeaturesController(app.auth, features).
		WithLogger(app.GetLogger("ctrl:features"))
	hub.RegisterFeatureRoutes(r, app.auther, app.validator, featuresCtrl)

	reports := hub.NewReportService(app.repo.Reports(), app.sink).
		WithLogger(app.GetLogger("svc:reports"))
	reportsCtrl := hub.NewReportsController(app.auth, reports).
		WithLogger(app.GetLogger("ctrl:reports"))
	hub.RegisterReportRoutes(r, app.auther, app.validator, reportsCtrl)

	tracker := hub.NewTrackerService(app.repo.Tasks(), app.repo.Roadmap(), app.repo.Pipeline(), app.sink).
		WithLogger(app.GetLogger("svc:tracker"))
	trackerCtrl := hub.NewTrackerController(app.auth, tracker).
		WithLogger(app.GetLogger("ctrl:tracker"))
	hub.RegisterTrackerRoutes(r, app.auther, app.validator, trackerCtrl)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
