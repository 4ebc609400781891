package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

// MemoryRepo is a Repo backed by a map, for local runs and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	dishes map[uuid.UUID]Dish
}

func NewMemoryRepo(dishes ...Dish) *MemoryRepo {
	r := &MemoryRepo{dishes: make(map[uuid.UUID]Dish, len(dishes))}
	for _, d := range dishes {
		r.dishes[d.ID] = d
	}
	return r
}

func (r *MemoryRepo) Get(ctx context.Context, id uuid.UUID) (Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dishes[id]
	if !ok {
		return Dish{}, fmt.Errorf("dish %s: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter, sorting Sorting, limit, offset int) ([]Dish, int, error) {
	r.mu.RLock()
	matched := make([]Dish, 0, len(r.dishes))
	for _, d := range r.dishes {
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, d.Category) {
			continue
		}
		if filter.Vegetarian != nil && d.Vegetarian != *filter.Vegetarian {
			continue
		}
		matched = append(matched, d)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j], sorting) })

	total := len(matched)
	if offset >= total {
		return []Dish{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (r *MemoryRepo) SetRating(ctx context.Context, id uuid.UUID, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dishes[id]
	if !ok {
		return fmt.Errorf("dish %s: %w", id, apperr.ErrNotFound)
	}
	d.Rating = &score
	r.dishes[id] = d
	return nil
}

func less(a, b Dish, sorting Sorting) bool {
	var c int
	switch sorting {
	case SortNameDesc:
		c = -strings.Compare(a.Name, b.Name)
	case SortPriceAsc:
		c = a.Price.Cmp(b.Price)
	case SortPriceDesc:
		c = -a.Price.Cmp(b.Price)
	case SortRatingAsc:
		c = compareFloat(ratingOf(a), ratingOf(b))
	case SortRatingDesc:
		c = -compareFloat(ratingOf(a), ratingOf(b))
	default:
		c = strings.Compare(a.Name, b.Name)
	}
	if c != 0 {
		return c < 0
	}
	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}

func ratingOf(d Dish) float64 {
	if d.Rating == nil {
		return 0
	}
	return *d.Rating
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
