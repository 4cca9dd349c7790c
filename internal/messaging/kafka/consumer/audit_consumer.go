package consumer

import (
	"context"

	"staffly/internal/bootstrap"
	"staffly/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLifecycleAudit writes every employee and payroll lifecycle event to the audit log.
func ConsumeLifecycleAudit(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit")
	log.Info("lifecycle audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("lifecycle audit consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		HandleMessage(ctx, msg, audit, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleMessage audits a single message. Undecodable payloads are logged and skipped.
func HandleMessage(ctx context.Context, msg kafkago.Message, audit bootstrap.AuditLogger, log *zap.Logger) {
	env, err := events.Peek(msg.Value)
	if err != nil {
		log.Error("decode lifecycle event failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	eventType := env.EventType
	if eventType == "" {
		eventType = headerValue(msg, "event_type")
	}

	audit.Log(ctx, bootstrap.AuditLog{
		Action:  eventType,
		Message: "lifecycle event received",
		Meta: map[string]any{
			"topic":        msg.Topic,
			"aggregate_id": string(msg.Key),
			"request_id":   env.RequestID,
			"partition":    msg.Partition,
			"offset":       msg.Offset,
		},
	})
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
