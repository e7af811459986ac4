package app

import (
	"context"
	"errors"

	"go-fleetpay/internal/advance"
	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/expense"
	"go-fleetpay/internal/messaging/kafka/consumer"
	"go-fleetpay/internal/payroll"
	"go-fleetpay/internal/trip"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const statementConsumerGroup = "go-fleetpay-payroll-statements"

// RunConsumer renders statements for settled payrolls until signalled.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")
	lifecycle := bootstrap.NewLifecycleLogger(logger)

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := connectDB(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	statements, err := payroll.NewFileStatementStore(cfg.StatementDir)
	if err != nil {
		return err
	}
	payrollService := payroll.NewService(sqlDB, payroll.Dependencies{
		Payrolls:   payroll.NewRepository(gormDB),
		Trips:      trip.NewRepository(gormDB),
		Expenses:   expense.NewRepository(gormDB),
		Advances:   advance.NewRepository(gormDB),
		Drivers:    driver.NewRepository(gormDB),
		Statements: statements,
	}, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.PayrollSettledTopic,
		GroupID:        statementConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollSettled(ctx, reader, payrollService, log)
	lifecycle.Log(ctx, bootstrap.LifecycleEvent{
		Action:  "CONSUMER_START",
		Message: "payroll statement consumer started",
		Meta:    map[string]any{"topic": events.PayrollSettledTopic, "group": statementConsumerGroup},
	})

	sig := bootstrap.WaitForSignal()
	lifecycle.Log(ctx, bootstrap.LifecycleEvent{
		Action:  "CONSUMER_SHUTDOWN",
		Message: "payroll statement consumer shutting down",
		Meta:    map[string]any{"signal": sig.String()},
	})
	cancel()

	return nil
}
