package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/staff/internal/staff/config"
	"github.com/gartstein/staff/internal/staff/controller"
	"github.com/gartstein/staff/internal/staff/db"
	"github.com/gartstein/staff/internal/staff/events"
	"github.com/gartstein/staff/internal/staff/handlers"
	"github.com/gartstein/staff/internal/staff/validation"
	"go.uber.org/zap"
)

type eventProducer interface {
	controller.EventProducer
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

	repo, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	store := controller.NewStore(repo)
	validator := validation.NewValidator(repo, cfg.DefaultISDCode, logger)
	companySvc := controller.NewCompanyService(store, producer, logger)
	employeeSvc := controller.NewEmployeeService(store, validator, producer, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	if err := server.RegisterHTTPHandlers(companySvc, employeeSvc); err != nil {
		logger.Fatal("Failed to register HTTP handlers", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// connectDatabase opens the store, retrying while the database comes up.
func connectDatabase(cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	var repo *db.Repository
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.DBConnectRetries)
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(cfg.Database(), logger)
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
	return repo, err
}

// initProducer publishes change events to Kafka when brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) eventProducer {
	if !cfg.EventsEnabled() {
		logger.Info("no Kafka brokers configured, change events disabled")
		return events.NopProducer{}
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return producer
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
