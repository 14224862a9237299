package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/club-portal/internal/api"
	"github.com/yakoovad/club-portal/internal/auth"
	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/broadcast"
	"github.com/yakoovad/club-portal/internal/config"
	"github.com/yakoovad/club-portal/internal/db"
	"github.com/yakoovad/club-portal/internal/record"
	"github.com/yakoovad/club-portal/internal/repository"
	"github.com/yakoovad/club-portal/internal/service"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	auth.TokenSecretKey = cfg.Session.Secret

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	var (
		states     repository.StateRepository
		transactor = db.NewNopTransactor()
		checks     = []health.Config{api.UpstreamCheck(cfg.Upstream.URL)}
	)

	switch {
	case cfg.Store.PostgresDSN != "":
		pool, err := pgxpool.New(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err = pool.Ping(ctx); err != nil {
			log.Fatal("failed to ping database", zap.Error(err))
		}
		if err = repository.MigratePgx(ctx, pool); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}

		log.Info("database connection established")

		states = repository.NewPgxStateRepository(pool)
		transactor = db.NewPgxTransactor(pool)
		checks = append(checks, api.PostgresCheck(cfg.Store.PostgresDSN))
	case cfg.Store.SQLitePath != "":
		repo, closeFn, err := repository.NewSQLiteStateRepository(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal("failed to open sqlite store", zap.Error(err))
		}
		defer closeFn()

		log.Info("sqlite store opened", zap.String("path", cfg.Store.SQLitePath))
		states = repo
	default:
		log.Warn("no state store configured, sessions are kept in memory")
		states = repository.NewMemoryStateRepository()
	}

	hub := broadcast.NewHub(uuid.NewString())
	if cfg.Kafka.Broker != "" {
		forwarder := broadcast.NewKafkaForwarder(cfg.Kafka.Broker, cfg.Kafka.Topic)
		defer forwarder.Close()
		hub.WithForwarder(forwarder)

		listener := broadcast.NewKafkaListener(cfg.Kafka.Broker, cfg.Kafka.Topic, hub.Origin())
		defer listener.Close()
		go listener.Run(ctx, hub)

		log.Info("broadcast fan-out enabled", zap.String("broker", cfg.Kafka.Broker), zap.String("topic", cfg.Kafka.Topic))
	}

	drafts := record.NewRegistry()

	session := service.NewSessionService(states, cfg.Session.TTL).WithDrafts(drafts).WithPublisher(hub)

	client := backend.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout).
		WithUnauthorizedHook(func(ctx context.Context) {
			if sid := auth.SessionIDFromContext(ctx); sid != "" {
				if err := session.Teardown(ctx, sid); err != nil {
					logger.FromContext(ctx).Warn("failed to tear down session", zap.Error(err))
				}
			}
		})

	membership := service.NewMembershipService(states).WithTeamAPI(client).WithTransactor(transactor).WithPublisher(hub)
	session.WithAuthAPI(client).WithUserAPI(client).WithMembership(membership)

	stats := service.NewStatsService(client)
	unwatch := stats.Watch(hub)
	defer unwatch()

	profile := service.NewProfileService(client)
	team := service.NewTeamService(client).WithMembership(membership)
	admin := service.NewAdminService(client).WithMembership(membership).WithPublisher(hub)
	match := service.NewMatchService(client).WithPublisher(hub)
	attendance := service.NewAttendanceService(client).WithPublisher(hub)
	rec := service.NewRecordService(drafts).WithTeamAPI(client).WithMatchAPI(client).WithPublisher(hub)

	e := echo.New()
	e.HideBanner = true

	handler := api.NewHandler(log).
		WithHealthChecker(api.MustNewHealthChecker(checks...)).
		WithSessionService(session).
		WithMembershipService(membership).
		WithProfileService(profile).
		WithTeamService(team).
		WithAdminService(admin).
		WithMatchService(match).
		WithAttendanceService(attendance).
		WithRecordService(rec).
		WithStatsService(stats)

	handler.RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := e.Shutdown(context.Background()); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("port", cfg.App.Port))
	if err = e.Start(":" + cfg.App.Port); err != nil && ctx.Err() == nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
