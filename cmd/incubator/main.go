package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/incubator/internal/incubator/auth"
	"github.com/gartstein/incubator/internal/incubator/config"
	"github.com/gartstein/incubator/internal/incubator/controller"
	gorm "github.com/gartstein/incubator/internal/incubator/db"
	"github.com/gartstein/incubator/internal/incubator/events"
	"github.com/gartstein/incubator/internal/incubator/handlers"
	"github.com/gartstein/incubator/internal/incubator/metrics"
	"github.com/gartstein/incubator/internal/incubator/scheduler"
	"github.com/gartstein/incubator/internal/incubator/storage"
	"go.uber.org/zap"
)

// producer is the event sink used by the controllers, Kafka or no-op.
type producer interface {
	Produce(event events.Event)
	Close()
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := connectDatabase(initDatabase(cfg), logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	m := metrics.New(nil)

	prod := initProducer(cfg, m, logger)
	defer prod.Close()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
		consumer.RegisterHandler(events.AuditHandler(logger))
		consumer.Start(rootCtx)
		defer consumer.Close()
	}

	files, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.Error(err))
	}
	if err := files.EnsureBucket(rootCtx); err != nil {
		// The API still serves everything except follow-up files.
		logger.Error("object storage unavailable", zap.Error(err))
	}

	loc := cfg.Location()
	search := controller.NewSearchService(repo, logger)
	followUps := controller.NewFollowUpService(repo, files, logger)
	services := handlers.Services{
		Tenants:      controller.NewTenantService(repo, followUps, logger),
		Formulas:     controller.NewFormulaService(repo, prod, m, logger),
		Search:       search,
		Financial:    controller.NewFinancialService(repo, prod, logger),
		Relations:    controller.NewRelationService(repo, loc, logger),
		FollowUps:    followUps,
		Projects:     controller.NewProjectService(repo, logger),
		Reference:    controller.NewReferenceService(repo, logger),
		Spreadsheets: controller.NewSpreadsheetService(repo, search, logger),
		Health:       repo,
	}

	sched := scheduler.New(logger, loc)
	if err := sched.AddJob(cfg.ArchiveSchedule, controller.NewArchiveJob(files, m, logger)); err != nil {
		logger.Fatal("failed to schedule archival job", zap.Error(err))
	}

	gate := auth.NewMiddleware(cfg.JWTSecret, repo, logger)
	router := handlers.NewRouter(handlers.NewHandler(services, logger), gate, m)
	server := handlers.NewServer(cfg.HTTPPort, router, cfg.CORSOrigins, logger)

	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
	sched.Start()

	waitForShutdown(server, sched, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger
}

// initDatabase maps the configuration onto the repository settings.
func initDatabase(cfg *config.Config) *gorm.Config {
	return &gorm.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}
}

// connectDatabase retries while the database container is still starting.
func connectDatabase(dbConf *gorm.Config, logger *zap.Logger) (*gorm.Repository, error) {
	var repo *gorm.Repository
	operation := func() error {
		var err error
		repo, err = gorm.NewRepository(dbConf)
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 6)
	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	return repo, err
}

func initProducer(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) producer {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewNopProducer(logger)
	}
	p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Error("failed to initialize Kafka producer, events disabled", zap.Error(err))
		return events.NewNopProducer(logger)
	}
	p.OnDrop(func(events.Event) {
		m.EventsDropped.Inc()
	})
	return p
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure,
// then stops the scheduler and the server.
func waitForShutdown(server *handlers.Server, sched *scheduler.Scheduler, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err, ok := <-server.Errors():
		if ok {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(ctx)
	server.Stop()
	logger.Info("Service stopped properly")
}
