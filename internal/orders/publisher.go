package orders

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Events is told about committed state changes. Implementations must not
// block the request path.
type Events interface {
	OrderCreated(ctx context.Context, userID uuid.UUID, order Order)
	OrderDelivered(ctx context.Context, userID uuid.UUID, order Order)
}

type NopEvents struct{}

func (NopEvents) OrderCreated(context.Context, uuid.UUID, Order)   {}
func (NopEvents) OrderDelivered(context.Context, uuid.UUID, Order) {}

// Publisher is satisfied by the buffered Kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type traceKey struct{}

// WithTraceID attaches the request id that ends up in event envelopes.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// KafkaEvents wraps each event in an Envelope and hands it to the producer
// of its topic.
type KafkaEvents struct {
	Created   Publisher
	Delivered Publisher
	Service   string
	Logger    *zap.Logger
	now       func() time.Time
}

func (k *KafkaEvents) clock() time.Time {
	if k.now != nil {
		return k.now()
	}
	return time.Now()
}

func (k *KafkaEvents) OrderCreated(ctx context.Context, userID uuid.UUID, order Order) {
	k.publish(ctx, k.Created, EventOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:      order.ID.String(),
		UserID:       userID.String(),
		Address:      order.Address,
		DeliveryTime: order.DeliveryTime,
		Price:        order.Price.StringFixed(2),
		Items:        lineItems(order.Lines),
	})
}

func (k *KafkaEvents) OrderDelivered(ctx context.Context, userID uuid.UUID, order Order) {
	k.publish(ctx, k.Delivered, EventOrderDelivered, order.ID, OrderDeliveredPayload{
		OrderID:     order.ID.String(),
		UserID:      userID.String(),
		DeliveredAt: k.clock().UTC(),
	})
}

func (k *KafkaEvents) publish(ctx context.Context, p Publisher, eventType string, orderID uuid.UUID, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		k.Logger.Error("encode event payload", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    k.clock().UTC(),
		Producer:      k.Service,
		TraceID:       traceID(ctx),
		CorrelationID: orderID.String(),
		Payload:       body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		k.Logger.Error("encode event envelope", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	p.Publish(PartitionKey(orderID.String()), value,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
	)
}
