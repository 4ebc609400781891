package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasketLine is one dish in a user's basket. While OrderID is nil the line is
// mutable; once attached it belongs to that order for good.
type BasketLine struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"-"`
	DishID     uuid.UUID       `json:"dish_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Amount     int             `json:"amount"`
	Image      string          `json:"image"`
	OrderID    *uuid.UUID      `json:"-"`
	CreatedAt  time.Time       `json:"-"`
}

// setAmount keeps TotalPrice in step with Amount at the snapshotted unit price.
func (l *BasketLine) setAmount(n int) {
	l.Amount = n
	l.TotalPrice = l.Price.Mul(decimal.NewFromInt(int64(n)))
}

func (l BasketLine) Attached() bool { return l.OrderID != nil }

type Order struct {
	ID           uuid.UUID       `json:"id"`
	DeliveryTime time.Time       `json:"delivery_time"`
	OrderTime    time.Time       `json:"order_time"`
	Status       Status          `json:"status"`
	Price        decimal.Decimal `json:"price"`
	Address      string          `json:"address"`
	Lines        []BasketLine    `json:"dishes,omitempty"`
}

func sumTotals(lines []BasketLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalPrice)
	}
	return total
}
