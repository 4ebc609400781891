package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (Dish, error)
	// List returns one window of matching dishes and the total match count.
	List(ctx context.Context, filter Filter, sorting Sorting, limit, offset int) ([]Dish, int, error)
	SetRating(ctx context.Context, id uuid.UUID, score float64) error
}

// OrderHistory answers whether a user has ever ordered a dish.
type OrderHistory interface {
	HasOrderedDish(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
}
