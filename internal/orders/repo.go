package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore keeps baskets and orders in Postgres. Ownership of an order is
// derived from the user id on its lines.
type PGStore struct{ DB *pgxpool.Pool }

const lineColumns = `id, user_id, dish_id, name, price, amount, image, order_id, created_at`

const orderColumns = `o.id, o.delivery_time, o.order_time, o.status, o.price, o.address`

const ownsOrder = `EXISTS (SELECT 1 FROM basket_lines l WHERE l.order_id = o.id AND l.user_id = $2)`

func (s *PGStore) WithUser(ctx context.Context, userID uuid.UUID, fn func(tx Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// held until commit or rollback
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID.String()); err != nil {
		return fmt.Errorf("cannot lock user %s: %w", userID, err)
	}
	if err := fn(&pgTx{tx: tx, userID: userID}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) ListUnattached(ctx context.Context, userID uuid.UUID) ([]BasketLine, error) {
	return unattachedLines(ctx, s.DB, userID)
}

func (s *PGStore) ListOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE EXISTS (SELECT 1 FROM basket_lines l WHERE l.order_id = o.id AND l.user_id = $1)
		ORDER BY o.order_time DESC, o.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PGStore) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (Order, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 AND `+ownsOrder, orderID, userID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return Order{}, fmt.Errorf("cannot get order: %w", err)
	}

	rows, err := s.DB.Query(ctx, `SELECT `+lineColumns+` FROM basket_lines
		WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("cannot load order lines: %w", err)
	}
	o.Lines, err = collectLines(rows)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *PGStore) HasOrderedDish(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	var ok bool
	err := s.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM basket_lines
		WHERE user_id = $1 AND dish_id = $2 AND order_id IS NOT NULL)`, userID, dishID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("cannot check order history: %w", err)
	}
	return ok, nil
}

type pgTx struct {
	tx     pgx.Tx
	userID uuid.UUID
}

func (t *pgTx) UnattachedLines(ctx context.Context) ([]BasketLine, error) {
	return unattachedLines(ctx, t.tx, t.userID)
}

func (t *pgTx) InsertLine(ctx context.Context, line BasketLine) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO basket_lines(id, user_id, dish_id, name, price, amount, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		line.ID, t.userID, line.DishID, line.Name, line.Price, line.Amount, line.Image, line.CreatedAt)
	if err != nil {
		return fmt.Errorf("cannot insert basket line: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateLine(ctx context.Context, line BasketLine) error {
	ct, err := t.tx.Exec(ctx, `UPDATE basket_lines SET amount = $3
		WHERE id = $1 AND user_id = $2 AND order_id IS NULL`, line.ID, t.userID, line.Amount)
	if err != nil {
		return fmt.Errorf("cannot update basket line: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("basket line %s: %w", line.ID, apperr.ErrNotFound)
	}
	return nil
}

func (t *pgTx) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM basket_lines
		WHERE id = $1 AND user_id = $2 AND order_id IS NULL`, lineID, t.userID)
	if err != nil {
		return fmt.Errorf("cannot delete basket line: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("basket line %s: %w", lineID, apperr.ErrNotFound)
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, delivery_time, order_time, status, price, address)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.DeliveryTime, o.OrderTime, string(o.Status), o.Price, o.Address)
	if err != nil {
		return fmt.Errorf("cannot insert order: %w", err)
	}
	return nil
}

func (t *pgTx) AttachLines(ctx context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) error {
	ct, err := t.tx.Exec(ctx, `UPDATE basket_lines SET order_id = $1
		WHERE id = ANY($2) AND user_id = $3 AND order_id IS NULL`, orderID, lineIDs, t.userID)
	if err != nil {
		return fmt.Errorf("cannot attach lines: %w", err)
	}
	if int(ct.RowsAffected()) != len(lineIDs) {
		return fmt.Errorf("attached %d of %d lines to order %s", ct.RowsAffected(), len(lineIDs), orderID)
	}
	return nil
}

func (t *pgTx) LockOrder(ctx context.Context, orderID uuid.UUID) (Order, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.id = $1 AND `+ownsOrder+` FOR UPDATE`, orderID, t.userID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return Order{}, fmt.Errorf("cannot lock order: %w", err)
	}
	return o, nil
}

func (t *pgTx) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("cannot update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}

func unattachedLines(ctx context.Context, q querier, userID uuid.UUID) ([]BasketLine, error) {
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM basket_lines
		WHERE user_id = $1 AND order_id IS NULL ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("cannot list basket: %w", err)
	}
	return collectLines(rows)
}

func collectLines(rows pgx.Rows) ([]BasketLine, error) {
	defer rows.Close()
	var out []BasketLine
	for rows.Next() {
		var l BasketLine
		var amount int
		if err := rows.Scan(&l.ID, &l.UserID, &l.DishID, &l.Name, &l.Price, &amount, &l.Image, &l.OrderID, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.setAmount(amount)
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.DeliveryTime, &o.OrderTime, &status, &o.Price, &o.Address)
	o.Status = Status(status)
	return o, err
}
