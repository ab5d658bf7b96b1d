package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/SscSPs/admission_workflow_app/cmd/docs"
	portsrepo "github.com/SscSPs/admission_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/admission_workflow_app/internal/core/services"
	"github.com/SscSPs/admission_workflow_app/internal/handlers"
	"github.com/SscSPs/admission_workflow_app/internal/middleware"
	"github.com/SscSPs/admission_workflow_app/internal/platform/config"
	"github.com/SscSPs/admission_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/admission_workflow_app/internal/platform/outbox"
	"github.com/SscSPs/admission_workflow_app/internal/platform/validation"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/admission_workflow_app/internal/repositories/memory"
	redisrepo "github.com/SscSPs/admission_workflow_app/internal/repositories/redis"
	"github.com/SscSPs/admission_workflow_app/pkg/database"
	"github.com/SscSPs/admission_workflow_app/pkg/redisclient"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

// @title Admissions Workflow API
// @version 1.0
// @description Admission application workflow: drafts, document review, decisions and referral attribution.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var dbPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbPool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return err
		}
		defer database.ClosePgxPool(dbPool)
		logger.Info("Database connection pool established.")

		if cfg.RunMigrations {
			if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return err
			}
		}
	} else {
		logger.Warn("PGSQL_URL not set, applications are kept in memory")
	}

	repos, closeRepos, err := buildRepositories(ctx, logger, cfg, dbPool)
	if err != nil {
		return err
	}
	defer closeRepos()

	publisher, closePublisher, err := buildPublisher(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	requirements, err := services.NewStaticDocumentRequirements(cfg.RequiredDocumentTypes)
	if err != nil {
		return err
	}

	events := outbox.New(cfg.OutboxBuffer, m)
	container := services.NewServiceContainer(repos, services.Collaborators{
		Validator:    validation.NewPayloadValidator(),
		Requirements: requirements,
		Notifier:     events,
	}, services.WithMetrics(m))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, container, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := outbox.NewWorker(publisher, events.Events(), logger, m).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildRepositories selects the application and referral stores from configuration.
func buildRepositories(ctx context.Context, logger *slog.Logger, cfg *config.Config, dbPool *pgxpool.Pool) (portsrepo.RepositoryProvider, func(), error) {
	var repos portsrepo.RepositoryProvider
	if dbPool != nil {
		repos = pgsql.NewRepositoryProvider(dbPool)
	} else {
		repos = portsrepo.RepositoryProvider{
			ApplicationRepo: memory.NewApplicationRepository(),
			ReferralRepo:    memory.NewReferralCodeRepository(),
		}
	}

	switch cfg.ReferralStore {
	case config.ReferralStoreRedis:
		rc, err := redisclient.New(ctx, cfg.RedisURL)
		if err != nil {
			return repos, func() {}, err
		}
		if rc == nil {
			return repos, func() {}, errors.New("REDIS_URL is required for the redis referral store")
		}
		repos.ReferralRepo = redisrepo.NewReferralCodeRepository(rc.Client)
		logger.Info("Referral codes stored in redis")
		return repos, func() { _ = rc.Close() }, nil
	case config.ReferralStoreMemory:
		repos.ReferralRepo = memory.NewReferralCodeRepository()
		logger.Warn("Referral codes stored in memory")
	case config.ReferralStorePostgres:
		if dbPool == nil {
			logger.Warn("REFERRAL_STORE is postgres but no database is configured, using memory")
		}
	}
	return repos, func() {}, nil
}

// buildPublisher returns the Kafka publisher when brokers are configured, the log publisher otherwise.
func buildPublisher(ctx context.Context, logger *slog.Logger, cfg *config.Config) (outbox.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, workflow events are logged only")
		return outbox.NewLogPublisher(logger), func() {}, nil
	}

	kp, err := outbox.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, func() {}, err
	}
	topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := kp.EnsureTopic(topicCtx, 3, 1); err != nil {
		// The topic may be pre-provisioned.
		logger.Warn("Could not ensure kafka topic", slog.String("error", err.Error()), slog.String("topic", cfg.KafkaTopic))
	}
	logger.Info("Workflow events published to kafka", slog.String("topic", cfg.KafkaTopic))
	return kp, kp.Close, nil
}

func runMigrations(logger *slog.Logger, databaseURL, migrationsPath string) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	// Create a postgres driver instance for migrate
	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	// Apply all available "up" migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
