package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

type PGRepo struct{ DB *pgxpool.Pool }

const dishColumns = `id, name, description, price, image, vegetarian, rating, category`

func (r *PGRepo) Get(ctx context.Context, id uuid.UUID) (Dish, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id=$1`, id)
	d, err := scanDish(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dish{}, fmt.Errorf("dish %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return Dish{}, fmt.Errorf("cannot get dish: %w", err)
	}
	return d, nil
}

func (r *PGRepo) List(ctx context.Context, filter Filter, sorting Sorting, limit, offset int) ([]Dish, int, error) {
	where, args := whereClause(filter)

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM dishes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("cannot count dishes: %w", err)
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM dishes%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		dishColumns, where, orderBy(sorting), len(args)-1, len(args))
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot list dishes: %w", err)
	}
	defer rows.Close()

	var out []Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) SetRating(ctx context.Context, id uuid.UUID, score float64) error {
	ct, err := r.DB.Exec(ctx, `UPDATE dishes SET rating=$2 WHERE id=$1`, id, score)
	if err != nil {
		return fmt.Errorf("cannot rate dish: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("dish %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func whereClause(filter Filter) (string, []any) {
	var conds []string
	var args []any
	if len(filter.Categories) > 0 {
		cats := make([]string, 0, len(filter.Categories))
		for _, c := range filter.Categories {
			cats = append(cats, string(c))
		}
		args = append(args, cats)
		conds = append(conds, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if filter.Vegetarian != nil {
		args = append(args, *filter.Vegetarian)
		conds = append(conds, fmt.Sprintf("vegetarian = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy always ends on id so pages are stable across requests.
func orderBy(sorting Sorting) string {
	switch sorting {
	case SortNameDesc:
		return "name DESC, id"
	case SortPriceAsc:
		return "price ASC, id"
	case SortPriceDesc:
		return "price DESC, id"
	case SortRatingAsc:
		return "COALESCE(rating, 0) ASC, id"
	case SortRatingDesc:
		return "COALESCE(rating, 0) DESC, id"
	default:
		return "name ASC, id"
	}
}

func scanDish(row pgx.Row) (Dish, error) {
	var d Dish
	var category string
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.Image, &d.Vegetarian, &d.Rating, &category)
	d.Category = Category(category)
	return d, err
}
