package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kylethumm90/solar-review-hub-sub000/api/routes"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/attachments"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/auditlog"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/auth"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/claims"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/companies"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/notifications"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/questions"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/reviews"
	"github.com/kylethumm90/solar-review-hub-sub000/internal/users"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/auth/session"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/config"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/db"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/logger"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/metrics"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/migrate"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/pubsub"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/redis"
	"github.com/kylethumm90/solar-review-hub-sub000/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	var events pubsub.EventPublisher = pubsub.NopEvents{}
	var pubsubClient *pubsub.Client
	if cfg.PubSub.Enabled {
		pubsubClient, err = pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		events = pubsub.NewEvents(pubsubClient.ModerationPublisher(), logg)
	}

	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	companiesRepo := companies.NewRepository(conn)
	claimsRepo := claims.NewRepository(conn)
	reviewsRepo := reviews.NewRepository(conn)
	questionsRepo := questions.NewRepository(conn)
	attachmentsRepo := attachments.NewRepository(conn)
	notificationsRepo := notifications.NewRepository(conn)
	auditRepo := auditlog.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    usersRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	companyService, err := companies.NewService(companies.ServiceParams{
		DB:     dbClient,
		Repo:   companiesRepo,
		Claims: claimsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	attachmentService, err := attachments.NewService(attachments.ServiceParams{
		Repo:        attachmentsRepo,
		Signer:      gcsClient,
		GCS:         cfg.GCS,
		Attachments: cfg.Attachments,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create attachment service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		DB:          dbClient,
		Repo:        reviewsRepo,
		Companies:   companiesRepo,
		CompanyRepo: companiesRepo,
		Questions:   questionsRepo,
		Attachments: attachmentService,
		Events:      events,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	claimService, err := claims.NewService(claims.ServiceParams{
		DB:          dbClient,
		Repo:        claimsRepo,
		Companies:   companiesRepo,
		CompanyRepo: companiesRepo,
		Events:      events,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create claim service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			metricsHandler,
			dbClient,
			redisClient,
			gcsClient,
			sessionManager,
			routes.Services{
				Auth:          authService,
				Register:      registerService,
				Companies:     companyService,
				Questions:     questionsRepo,
				Reviews:       reviewService,
				Claims:        claimService,
				Attachments:   attachmentService,
				Notifications: notificationService,
				AuditLog:      auditRepo,
			},
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
