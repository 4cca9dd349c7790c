package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"staffly/internal/bootstrap"
	"staffly/internal/events"
	"staffly/internal/messaging/kafka/consumer"
	"staffly/internal/shared/config"
	"staffly/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditConsumerGroup = "staffly-audit"

// RunConsumer writes employee and payroll lifecycle events to the audit log
// until SIGINT or SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	brokers := connection.SplitBrokers(cfg.KafkaBroker)
	if len(brokers) == 0 {
		return errors.New("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		GroupID:        auditConsumerGroup,
		GroupTopics:    events.Topics(),
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	audit := bootstrap.NewStdoutAuditLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeLifecycleAudit(ctx, reader, audit, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
