package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/homeservices/internal/api/http"
	"github.com/spec-kit/homeservices/internal/api/http/handlers"
	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/config"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/events"
	"github.com/spec-kit/homeservices/internal/gateway"
	"github.com/spec-kit/homeservices/internal/observability"
	"github.com/spec-kit/homeservices/internal/persistence"
	"github.com/spec-kit/homeservices/internal/repository"
	"github.com/spec-kit/homeservices/internal/service"
	"github.com/spec-kit/homeservices/internal/session"
	"github.com/spec-kit/homeservices/internal/store"
	"github.com/spec-kit/homeservices/internal/worker"
)

const notificationBuffer = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prom.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := observability.NewPrometheusRecorder(registry)

	st := store.New()
	st.Subscribe(func(action store.Action, _, _ *store.State) {
		recorder.IncDispatch(action.Name())
	})
	resolver := session.NewResolver(func(from, to session.Route) {
		logger.Info("navigation root changed", zap.String("from", string(from)), zap.String("to", string(to)))
	})
	defer resolver.Attach(st)()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var directory repository.UserDirectory
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		directory = repository.NewPostgresDirectory(pool)
	} else {
		logger.Warn("using in-memory account directory")
		directory = repository.NewMemoryDirectory()
	}

	sim := gateway.NewSimulator(cfg.Simulation.Latency(), recorder)
	var seedJobs []domain.Job
	if cfg.Simulation.SeedDemoData {
		now := time.Now()
		if err := gateway.SeedDemoAccounts(ctx, directory, cfg.Auth.BcryptCost, now); err != nil {
			logger.Fatal("failed to seed demo accounts", zap.Error(err))
		}
		seedJobs = gateway.DemoJobs(now)
		logger.Info("demo data seeded", zap.Int("jobs", len(seedJobs)))
	}
	authGateway := gateway.NewSimulatedAuth(sim, directory, cfg.Auth.BcryptCost)
	jobGateway := gateway.NewSimulatedJobs(sim, seedJobs...)
	paymentGateway := gateway.NewSimulatedPayments(sim)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	dispatcher := events.NewInMemoryDispatcher()

	sessions := service.NewSessionService(service.SessionDependencies{
		Store:      st,
		Gateway:    authGateway,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	jobs := service.NewJobService(service.JobDependencies{
		Store:           st,
		Gateway:         jobGateway,
		Dispatcher:      dispatcher,
		Recorder:        recorder,
		IDs:             service.NewJobIDGenerator(nil),
		Logger:          logger,
		RequireApproval: cfg.Marketplace.RequireProfessionalApproval,
	})
	chat := service.NewChatService(st, dispatcher, logger, nil)
	payments := service.NewPaymentService(st, paymentGateway, dispatcher, logger, nil)

	notifiers := service.FanOut{service.NewLogNotifier(logger, cfg.Notification.EmailFrom)}
	var redisPinger handlers.Pinger
	if cfg.Notification.RedisEnabled {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		notifiers = append(notifiers, service.NewRedisNotifier(redis, cfg.Notification.ChannelPrefix))
		redisPinger = redis
	}
	notificationWorker := worker.NewNotificationWorker(notifiers, notificationBuffer, logger)
	notifications := service.NewNotificationService(dispatcher, notificationWorker, logger, cfg.Notification, nil)
	worker.StartNotificationWorker(ctx, notifications, notificationWorker)

	if _, err := jobs.Refresh(ctx); err != nil {
		logger.Warn("initial job refresh failed", zap.Error(err))
	}

	var pgPinger handlers.Pinger
	if pg.PoolHandle() != nil {
		pgPinger = pg
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, recorder, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pgPinger,
			"redis":    redisPinger,
		}),
		Session:        handlers.NewSessionHandler(sessions),
		Jobs:           handlers.NewJobsHandler(jobs),
		Chat:           handlers.NewChatHandler(chat),
		Payments:       handlers.NewPaymentsHandler(payments, notifications),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, st),
		Registry:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notificationWorker.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
