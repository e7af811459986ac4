package app

import (
	"context"
	"errors"
	"time"

	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/messaging/kafka/producer"
	"go-fleetpay/internal/shared/connection"

	"go.uber.org/zap"
)

const outboxPollInterval = 3 * time.Second

// RunWorker relays pending outbox events to Kafka until signalled.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")
	lifecycle := bootstrap.NewLifecycleLogger(logger)

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, log, outboxPollInterval)
	lifecycle.Log(ctx, bootstrap.LifecycleEvent{
		Action:  "WORKER_START",
		Message: "outbox worker started",
		Meta:    map[string]any{"poll_interval": outboxPollInterval.String()},
	})

	sig := bootstrap.WaitForSignal()
	lifecycle.Log(ctx, bootstrap.LifecycleEvent{
		Action:  "WORKER_SHUTDOWN",
		Message: "outbox worker shutting down",
		Meta:    map[string]any{"signal": sig.String()},
	})
	cancel()

	return nil
}
