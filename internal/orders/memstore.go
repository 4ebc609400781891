package orders

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

// MemoryStore keeps everything in process memory with the same transaction
// semantics as PGStore. Writes inside WithUser are staged and applied in one
// step when the callback succeeds.
type MemoryStore struct {
	mu     sync.RWMutex
	lines  map[uuid.UUID]BasketLine
	orders map[uuid.UUID]Order

	// Users hash onto a fixed set of stripes so lock memory stays bounded.
	// Two users may share a stripe; WithUser never nests.
	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lines:  map[uuid.UUID]BasketLine{},
		orders: map[uuid.UUID]Order{},
	}
}

func (s *MemoryStore) userLock(userID uuid.UUID) *sync.Mutex {
	return &s.locks[stripe(userID)]
}

func stripe(userID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return int(h.Sum32() % lockStripes)
}

func (s *MemoryStore) WithUser(ctx context.Context, userID uuid.UUID, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := s.userLock(userID)
	m.Lock()
	defer m.Unlock()

	tx := &memTx{
		s:      s,
		userID: userID,
		lines:  map[uuid.UUID]*BasketLine{},
		orders: map[uuid.UUID]Order{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range tx.lines {
		if l == nil {
			delete(s.lines, id)
			continue
		}
		s.lines[id] = *l
	}
	for id, o := range tx.orders {
		s.orders[id] = o
	}
	return nil
}

func (s *MemoryStore) ListUnattached(_ context.Context, userID uuid.UUID) ([]BasketLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []BasketLine
	for _, l := range s.lines {
		if l.UserID == userID && !l.Attached() {
			out = append(out, l)
		}
	}
	sortLines(out)
	return out, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, userID uuid.UUID) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := map[uuid.UUID]bool{}
	for _, l := range s.lines {
		if l.UserID == userID && l.Attached() {
			owned[*l.OrderID] = true
		}
	}
	out := make([]Order, 0, len(owned))
	for id := range owned {
		if o, ok := s.orders[id]; ok {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderTime.Equal(out[j].OrderTime) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].OrderTime.After(out[j].OrderTime)
	})
	return out, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, orderID, userID uuid.UUID) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	var lines []BasketLine
	owned := false
	for _, l := range s.lines {
		if l.OrderID == nil || *l.OrderID != orderID {
			continue
		}
		lines = append(lines, l)
		owned = owned || l.UserID == userID
	}
	if !owned {
		return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	sortLines(lines)
	o.Lines = lines
	return o, nil
}

func (s *MemoryStore) HasOrderedDish(_ context.Context, userID, dishID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lines {
		if l.UserID == userID && l.DishID == dishID && l.Attached() {
			return true, nil
		}
	}
	return false, nil
}

func sortLines(lines []BasketLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].ID.String() < lines[j].ID.String()
		}
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})
}

// memTx reads committed state overlaid with its own staged writes. A nil
// staged line marks a deletion.
type memTx struct {
	s      *MemoryStore
	userID uuid.UUID
	lines  map[uuid.UUID]*BasketLine
	orders map[uuid.UUID]Order
}

func (t *memTx) view() map[uuid.UUID]BasketLine {
	t.s.mu.RLock()
	out := make(map[uuid.UUID]BasketLine, len(t.s.lines))
	for id, l := range t.s.lines {
		if l.UserID == t.userID {
			out[id] = l
		}
	}
	t.s.mu.RUnlock()
	for id, l := range t.lines {
		if l == nil {
			delete(out, id)
			continue
		}
		out[id] = *l
	}
	return out
}

func (t *memTx) unattached(lineID uuid.UUID) (BasketLine, error) {
	l, ok := t.view()[lineID]
	if !ok || l.Attached() {
		return BasketLine{}, fmt.Errorf("basket line %s: %w", lineID, apperr.ErrNotFound)
	}
	return l, nil
}

func (t *memTx) UnattachedLines(context.Context) ([]BasketLine, error) {
	var out []BasketLine
	for _, l := range t.view() {
		if !l.Attached() {
			out = append(out, l)
		}
	}
	sortLines(out)
	return out, nil
}

func (t *memTx) InsertLine(_ context.Context, line BasketLine) error {
	line.UserID = t.userID
	line.OrderID = nil
	line.setAmount(line.Amount)
	t.lines[line.ID] = &line
	return nil
}

func (t *memTx) UpdateLine(_ context.Context, line BasketLine) error {
	cur, err := t.unattached(line.ID)
	if err != nil {
		return err
	}
	cur.setAmount(line.Amount)
	t.lines[cur.ID] = &cur
	return nil
}

func (t *memTx) DeleteLine(_ context.Context, lineID uuid.UUID) error {
	if _, err := t.unattached(lineID); err != nil {
		return err
	}
	t.lines[lineID] = nil
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o Order) error {
	o.Lines = nil
	t.orders[o.ID] = o
	return nil
}

func (t *memTx) AttachLines(_ context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) error {
	view := t.view()
	attach := make([]BasketLine, 0, len(lineIDs))
	for _, id := range lineIDs {
		l, ok := view[id]
		if !ok || l.Attached() {
			return fmt.Errorf("attach line %s to order %s: %w", id, orderID, apperr.ErrNotFound)
		}
		attach = append(attach, l)
	}
	for _, l := range attach {
		l := l
		oid := orderID
		l.OrderID = &oid
		t.lines[l.ID] = &l
	}
	return nil
}

func (t *memTx) order(orderID uuid.UUID) (Order, bool) {
	if o, ok := t.orders[orderID]; ok {
		return o, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	o, ok := t.s.orders[orderID]
	return o, ok
}

func (t *memTx) LockOrder(_ context.Context, orderID uuid.UUID) (Order, error) {
	o, ok := t.order(orderID)
	if !ok {
		return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	for _, l := range t.view() {
		if l.OrderID != nil && *l.OrderID == orderID {
			return o, nil
		}
	}
	return Order{}, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
}

func (t *memTx) SetOrderStatus(_ context.Context, orderID uuid.UUID, status Status) error {
	o, ok := t.order(orderID)
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	o.Status = status
	t.orders[orderID] = o
	return nil
}
