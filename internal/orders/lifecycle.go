package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

// Lifecycle turns baskets into orders and moves orders through their statuses.
type Lifecycle struct {
	store  Store
	events Events
	logger *zap.Logger
	now    func() time.Time
}

func NewLifecycle(store Store, events Events, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{store: store, events: events, logger: logger, now: time.Now}
}

// CreateOrder drains every unattached line of userID into a new order. The
// drain and the attach happen in one user-scoped transaction, so a line
// added concurrently either lands in this order or stays in the basket.
func (c *Lifecycle) CreateOrder(ctx context.Context, userID uuid.UUID, address string, deliveryTime time.Time) (uuid.UUID, error) {
	address = strings.TrimSpace(address)
	if address == "" || deliveryTime.IsZero() {
		c.logger.Warn("invalid order request", zap.String("user_id", userID.String()))
		return uuid.Nil, fmt.Errorf("%w: address and delivery time are required", apperr.ErrInvalidRequest)
	}

	var order Order
	err := c.store.WithUser(ctx, userID, func(tx Tx) error {
		lines, err := tx.UnattachedLines(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyBasket
		}

		order = Order{
			ID:           uuid.New(),
			DeliveryTime: deliveryTime.UTC(),
			OrderTime:    c.now().UTC(),
			Status:       StatusInProcess,
			Price:        sumTotals(lines),
			Address:      address,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			ids = append(ids, lines[i].ID)
			lines[i].OrderID = &order.ID
		}
		order.Lines = lines
		return tx.AttachLines(ctx, order.ID, ids)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyBasket) {
			c.logger.Warn("order attempted with an empty basket", zap.String("user_id", userID.String()))
		}
		return uuid.Nil, err
	}

	c.events.OrderCreated(ctx, userID, order)
	c.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.String("price", order.Price.StringFixed(2)))
	return order.ID, nil
}

func (c *Lifecycle) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (Order, error) {
	order, err := c.store.GetOrder(ctx, orderID, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.logger.Warn("order not found",
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID.String()))
	}
	return order, err
}

func (c *Lifecycle) ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	list, err := c.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Order{}
	}
	c.logger.Info("orders listed", zap.String("user_id", userID.String()), zap.Int("count", len(list)))
	return list, nil
}

// ConfirmDelivery moves an order from InProcess to Delivered exactly once.
func (c *Lifecycle) ConfirmDelivery(ctx context.Context, orderID, userID uuid.UUID) error {
	var order Order
	err := c.store.WithUser(ctx, userID, func(tx Tx) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == StatusDelivered {
			return apperr.ErrAlreadyDelivered
		}
		if !CanTransition(order.Status, StatusDelivered) {
			return fmt.Errorf("order %s in status %q cannot be delivered", orderID, order.Status)
		}
		order.Status = StatusDelivered
		return tx.SetOrderStatus(ctx, orderID, StatusDelivered)
	})
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.logger.Warn("order not found",
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID.String()))
		return err
	case errors.Is(err, apperr.ErrAlreadyDelivered):
		c.logger.Warn("order already delivered", zap.String("order_id", orderID.String()))
		return err
	case err != nil:
		return err
	}

	c.events.OrderDelivered(ctx, userID, order)
	c.logger.Info("order delivered",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()))
	return nil
}
