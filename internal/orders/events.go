package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderDelivered = "OrderDelivered"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type LineItem struct {
	DishID     string `json:"dish_id"`
	Name       string `json:"name"`
	Amount     int    `json:"amount"`
	TotalPrice string `json:"total_price"`
}

type OrderCreatedPayload struct {
	OrderID      string     `json:"order_id"`
	UserID       string     `json:"user_id"`
	Address      string     `json:"address"`
	DeliveryTime time.Time  `json:"delivery_time"`
	Price        string     `json:"price"`
	Items        []LineItem `json:"items"`
}

type OrderDeliveredPayload struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

func lineItems(lines []BasketLine) []LineItem {
	out := make([]LineItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineItem{
			DishID:     l.DishID.String(),
			Name:       l.Name,
			Amount:     l.Amount,
			TotalPrice: l.TotalPrice.StringFixed(2),
		})
	}
	return out
}
