package audit

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// Sink records lifecycle events.
type Sink interface {
	Record(ctx context.Context, event *LifecycleEvent) error
}

// LogSink writes one structured audit line per event.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink writing to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

func (s *LogSink) Record(ctx context.Context, event *LifecycleEvent) error {
	s.logger.Info("url "+string(event.Transition),
		zap.String("hash", event.Hash),
		zap.String("url", event.URL),
		zap.Time("occurredAt", event.OccurredAt),
		zap.String("requestId", event.RequestID),
		zap.String("correlationId", messaging.CorrelationIDFromContext(ctx)),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// NewPublisher returns a publish function for lifecycle events.
func NewPublisher(publisher message.Publisher) messaging.Publish[LifecycleEvent] {
	return messaging.NewPublishFunc[LifecycleEvent](publisher, TopicLifecycle)
}

// NewConsumer returns a consumer feeding lifecycle events to sink.
func NewConsumer(subscriber message.Subscriber, sink Sink, logger *zap.Logger) *messaging.Consumer[LifecycleEvent] {
	return messaging.NewConsumer(subscriber, TopicLifecycle, sink.Record, logger)
}
