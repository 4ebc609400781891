package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
)

type DishFinder interface {
	Get(ctx context.Context, id uuid.UUID) (catalog.Dish, error)
}

// Ledger manages the unattached basket lines of each user.
type Ledger struct {
	store  Store
	dishes DishFinder
	logger *zap.Logger
	now    func() time.Time
}

func NewLedger(store Store, dishes DishFinder, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, dishes: dishes, logger: logger, now: time.Now}
}

// basketKey decides which dishes share a basket line. Lines merge by dish
// name, so two catalog dishes with the same name end up on one line.
func basketKey(name string) string { return name }

func (l *Ledger) List(ctx context.Context, userID uuid.UUID) ([]BasketLine, error) {
	lines, err := l.store.ListUnattached(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []BasketLine{}
	}
	return lines, nil
}

// Add puts one more portion of a dish into the user's basket.
func (l *Ledger) Add(ctx context.Context, userID, dishID uuid.UUID) (BasketLine, error) {
	dish, err := l.dishes.Get(ctx, dishID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.logger.Warn("dish not found", zap.String("dish_id", dishID.String()))
		}
		return BasketLine{}, err
	}

	var out BasketLine
	err = l.store.WithUser(ctx, userID, func(tx Tx) error {
		lines, err := tx.UnattachedLines(ctx)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if basketKey(line.Name) != basketKey(dish.Name) {
				continue
			}
			line.setAmount(line.Amount + 1)
			if err := tx.UpdateLine(ctx, line); err != nil {
				return err
			}
			out = line
			return nil
		}

		out = BasketLine{
			ID:        uuid.New(),
			UserID:    userID,
			DishID:    dish.ID,
			Name:      dish.Name,
			Price:     dish.Price,
			Image:     dish.Image,
			CreatedAt: l.now().UTC(),
		}
		out.setAmount(1)
		return tx.InsertLine(ctx, out)
	})
	if err != nil {
		return BasketLine{}, err
	}

	l.logger.Info("dish added to basket",
		zap.String("user_id", userID.String()),
		zap.String("dish_id", dishID.String()),
		zap.String("line_id", out.ID.String()),
		zap.Int("amount", out.Amount))
	return out, nil
}

// DecreaseOrRemove addresses a basket line by its own id. With increase set
// it takes one portion off and drops the line at zero; otherwise it drops the
// line outright.
func (l *Ledger) DecreaseOrRemove(ctx context.Context, userID, lineID uuid.UUID, increase bool) error {
	err := l.store.WithUser(ctx, userID, func(tx Tx) error {
		lines, err := tx.UnattachedLines(ctx)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.ID != lineID {
				continue
			}
			if increase && line.Amount > 1 {
				line.setAmount(line.Amount - 1)
				return tx.UpdateLine(ctx, line)
			}
			return tx.DeleteLine(ctx, line.ID)
		}
		return fmt.Errorf("basket line %s: %w", lineID, apperr.ErrNotFound)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.logger.Warn("basket line not found",
				zap.String("user_id", userID.String()),
				zap.String("line_id", lineID.String()))
		}
		return err
	}

	l.logger.Info("basket line updated",
		zap.String("user_id", userID.String()),
		zap.String("line_id", lineID.String()),
		zap.Bool("increase", increase))
	return nil
}
