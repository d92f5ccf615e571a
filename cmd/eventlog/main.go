// Command eventlog follows the staff change events topic and logs every
// event it reads.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/staff/internal/staff/config"
	"github.com/gartstein/staff/internal/staff/events"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if !cfg.EventsEnabled() {
		logger.Fatal("KAFKA_BROKERS is empty, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
	defer consumer.Close()

	consumer.RegisterHandler(func(_ context.Context, ev events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", ev.ID.String()),
			zap.String("event_type", string(ev.Type)),
			zap.String("key", ev.Key()),
		}
		if ev.Employee != nil {
			fields = append(fields, zap.String("uid", ev.Employee.UID))
		}
		if ev.Company != nil {
			fields = append(fields, zap.String("company", ev.Company.Name))
		}
		logger.Info("change event", fields...)
		return nil
	})

	logger.Info("consuming change events", zap.String("topic", cfg.Topic), zap.String("group", cfg.ConsumerGroup))
	if err := consumer.Run(ctx); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}
