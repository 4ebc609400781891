// Package notify turns order events into customer notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/restaurant-delivery/internal/kafka"
	"github.com/ariefcatur/restaurant-delivery/internal/metrics"
	"github.com/ariefcatur/restaurant-delivery/internal/orders"
	"github.com/ariefcatur/restaurant-delivery/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	Logger      *zap.Logger
	ServiceName string
}

// HandleEvent is installed as the consumer handler. Each event id is
// handled at most once per dedup window. Undecodable messages are skipped so
// they do not block the partition; only a Redis failure is returned, and the
// consumer retries the message until it succeeds.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Logger.Warn("skip undecodable event", zap.String("topic", m.Topic), zap.Int64("offset", m.Offset), zap.Error(err))
		metrics.RecordEvent(kafkax.Header(m, "x-event-type"), "malformed")
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.SetOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		s.Logger.Debug("duplicate event", zap.String("event_id", env.EventID))
		metrics.RecordEvent(env.EventType, "duplicate")
		return nil
	}

	if err := s.notify(env); err != nil {
		s.Logger.Warn("skip event with undecodable payload",
			zap.String("event_id", env.EventID),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		metrics.RecordEvent(env.EventType, "malformed")
		return nil
	}
	metrics.RecordEvent(env.EventType, "success")
	return nil
}

func (s *Service) notify(env orders.Envelope) error {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Logger.Info("customer notified: order accepted",
			zap.String("event_id", env.EventID),
			zap.String("order_id", p.OrderID),
			zap.String("user_id", p.UserID),
			zap.String("price", p.Price),
			zap.Int("lines", len(p.Items)),
			zap.Time("delivery_time", p.DeliveryTime),
			zap.String("trace_id", env.TraceID))
	case orders.EventOrderDelivered:
		p, err := kafkax.UnwrapPayload[orders.OrderDeliveredPayload](env.Payload)
		if err != nil {
			return err
		}
		s.Logger.Info("customer notified: order delivered",
			zap.String("event_id", env.EventID),
			zap.String("order_id", p.OrderID),
			zap.String("user_id", p.UserID),
			zap.Time("delivered_at", p.DeliveredAt),
			zap.String("trace_id", env.TraceID))
	default:
		s.Logger.Debug("ignore event", zap.String("event_type", env.EventType))
	}
	return nil
}
