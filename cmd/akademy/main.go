package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/akademy/akademy-api/pkg/client"
	"github.com/akademy/akademy-api/pkg/config"
	"github.com/akademy/akademy-api/pkg/migration"
	migrationapi "github.com/akademy/akademy-api/pkg/migration/api"
	"github.com/akademy/akademy-api/pkg/notification"
	"github.com/akademy/akademy-api/pkg/strapi"
	"github.com/akademy/akademy-api/pkg/users"
	usersapi "github.com/akademy/akademy-api/pkg/users/api"
)

type JwtConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

type Config struct {
	DbConfig        config.DatabaseConfig
	AppConfig       app.AppConfig
	StrapiConfig    config.StrapiConfig
	MigrationConfig config.MigrationConfig
	EmailConfig     config.EmailConfig
	JwtConfig       JwtConfig
}

func main() {
	// Local development convenience only; the real environment wins.
	godotenv.Load()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	if err := cfg.StrapiConfig.Validate(); err != nil {
		slog.Error("Invalid Strapi configuration", "err", err)
		os.Exit(-1)
	}
	if err := cfg.MigrationConfig.Validate(); err != nil {
		slog.Error("Invalid migration configuration", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := cfg.DbConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	// Outbound notices
	notificationManager := notification.NewNotificationManager()
	if err := notification.RegisterDefaultUserNotices(notificationManager); err != nil {
		slog.Error("Failed registering notice templates", "err", err)
		os.Exit(-1)
	}
	var smtpConfig notification.SMTPConfig
	copier.Copy(&smtpConfig, &cfg.EmailConfig)
	emailNotifier, err := notification.NewEmailNotifier(smtpConfig)
	if err != nil {
		slog.Error("Failed creating email notifier", "host", smtpConfig.Host, "err", err)
		os.Exit(-1)
	}
	notificationManager.RegisterNotifier(notification.EmailSystem, emailNotifier)

	// Migration pipeline
	migrationRepo := migration.NewPostgresRepository(pool)
	strapiClient := strapi.NewClient(
		cfg.StrapiConfig.BaseURL,
		cfg.StrapiConfig.Token,
		strapi.WithPageSize(cfg.StrapiConfig.PageSize),
	)

	serviceOpts := []migration.ServiceOption{}
	if cfg.MigrationConfig.ReportEmail != "" {
		reporter := migration.NewNoticeReporter(notificationManager, cfg.MigrationConfig.ReportEmail)
		serviceOpts = append(serviceOpts, migration.WithReporter(reporter))
	}
	migrationService := migration.NewService(
		migrationRepo,
		strapiClient,
		cfg.StrapiConfig,
		cfg.MigrationConfig,
		serviceOpts...,
	)

	// User lifecycle
	usersRepo := users.NewPostgresRepository(pool)
	usersService := users.NewUsersService(usersRepo, users.WithNotificationManager(notificationManager))

	// The migration endpoint stays reachable with the dedicated super
	// credential so cron can call it without a user session.
	migrationHandle := migrationapi.NewHandle(migrationService, cfg.MigrationConfig.Token)
	server.R.Route("/api/akademy", func(r chi.Router) {
		migrationHandle.RegisterRoutes(r)
	})

	// Admin surface behind JWT role gating.
	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.JwtSecret), nil)
	server.R.Group(func(r chi.Router) {
		r.Use(client.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Use(client.AuthUserMiddleware)
		r.Use(client.RequireAuth)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(client.RequireRole(client.RoleAdministrator))
			usersapi.NewHandle(usersService).RegisterRoutes(r)
		})

		// Same handler, no inline token: directors and above can trigger
		// a run from the dashboard without the cron credential.
		r.Route("/api/migration", func(r chi.Router) {
			r.Use(client.RequireMinLevel(client.RoleLevel(client.RoleDirector)))
			migrationapi.NewHandle(migrationService, "").RegisterRoutes(r)
		})
	})

	server.Run()
}
