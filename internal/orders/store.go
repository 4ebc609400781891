package orders

import (
	"context"

	"github.com/google/uuid"
)

// Store owns basket lines and orders. All writes go through WithUser.
type Store interface {
	// WithUser runs fn in a single transaction that excludes every other
	// WithUser call for the same user. Writes made through tx become visible
	// together when fn returns nil, and are discarded otherwise.
	WithUser(ctx context.Context, userID uuid.UUID, fn func(tx Tx) error) error

	ListUnattached(ctx context.Context, userID uuid.UUID) ([]BasketLine, error)
	// ListOrders returns orders holding at least one line of userID, newest first, without lines.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error)
	// GetOrder returns the order with its lines if one of them belongs to userID.
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (Order, error)
	HasOrderedDish(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
}

// Tx is scoped to the user passed to Store.WithUser.
type Tx interface {
	UnattachedLines(ctx context.Context) ([]BasketLine, error)
	InsertLine(ctx context.Context, line BasketLine) error
	UpdateLine(ctx context.Context, line BasketLine) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error

	InsertOrder(ctx context.Context, order Order) error
	// AttachLines moves unattached lines into orderID; all or nothing.
	AttachLines(ctx context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) error
	// LockOrder loads an order owned by the tx user for update.
	LockOrder(ctx context.Context, orderID uuid.UUID) (Order, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, status Status) error
}
