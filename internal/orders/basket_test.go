package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
)

func TestLedgerAddMergesRepeatedDish(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()

	first, err := f.ledger.Add(ctx, user, margheritaID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second, err := f.ledger.Add(ctx, user, margheritaID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second add created line %s, want reuse of %s", second.ID, first.ID)
	}

	lines, err := f.ledger.List(ctx, user)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	got := lines[0]
	if got.Amount != 2 {
		t.Errorf("Amount = %d, want 2", got.Amount)
	}
	if !got.TotalPrice.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("TotalPrice = %s, want 20.00", got.TotalPrice)
	}
	if got.DishID != margheritaID {
		t.Errorf("DishID = %s, want %s", got.DishID, margheritaID)
	}
}

func TestLedgerAddUnknownDish(t *testing.T) {
	f := newFixture()
	_, err := f.ledger.Add(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Add() error = %v, want ErrNotFound", err)
	}
}

func TestLedgerAddMergesDishesSharingAName(t *testing.T) {
	store := NewMemoryStore()
	a := catalog.Dish{ID: uuid.New(), Name: "Soup of the day", Price: decimal.RequireFromString("4.00")}
	b := catalog.Dish{ID: uuid.New(), Name: "Soup of the day", Price: decimal.RequireFromString("5.00")}
	ledger := NewLedger(store, catalog.NewMemoryRepo(a, b), zap.NewNop())
	ctx := context.Background()
	user := uuid.New()

	if _, err := ledger.Add(ctx, user, a.ID); err != nil {
		t.Fatalf("Add(a) error = %v", err)
	}
	line, err := ledger.Add(ctx, user, b.ID)
	if err != nil {
		t.Fatalf("Add(b) error = %v", err)
	}
	if line.Amount != 2 {
		t.Fatalf("Amount = %d, want 2", line.Amount)
	}
	if !line.TotalPrice.Equal(decimal.RequireFromString("8.00")) {
		t.Errorf("TotalPrice = %s, want 8.00 at the first snapshotted price", line.TotalPrice)
	}
}

func TestLedgerKeepsBasketsPerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if _, err := f.ledger.Add(ctx, alice, margheritaID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	lines, err := f.ledger.List(ctx, bob)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("List(bob) = %v, want empty non-nil slice", lines)
	}
}

func TestLedgerDecreaseOrRemove(t *testing.T) {
	tests := []struct {
		name       string
		adds       int
		increase   bool
		wantAmount int // 0 means the line is gone
	}{
		{name: "decrease two to one", adds: 2, increase: true, wantAmount: 1},
		{name: "decrease one removes", adds: 1, increase: true, wantAmount: 0},
		{name: "remove ignores amount", adds: 3, increase: false, wantAmount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			user := uuid.New()

			var line BasketLine
			for i := 0; i < tt.adds; i++ {
				var err error
				if line, err = f.ledger.Add(ctx, user, margheritaID); err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			}
			if err := f.ledger.DecreaseOrRemove(ctx, user, line.ID, tt.increase); err != nil {
				t.Fatalf("DecreaseOrRemove() error = %v", err)
			}

			lines, _ := f.ledger.List(ctx, user)
			if tt.wantAmount == 0 {
				if len(lines) != 0 {
					t.Fatalf("lines = %v, want none", lines)
				}
				return
			}
			if len(lines) != 1 || lines[0].Amount != tt.wantAmount {
				t.Fatalf("lines = %+v, want one line with amount %d", lines, tt.wantAmount)
			}
			want := decimal.RequireFromString("10.00").Mul(decimal.NewFromInt(int64(tt.wantAmount)))
			if !lines[0].TotalPrice.Equal(want) {
				t.Errorf("TotalPrice = %s, want %s", lines[0].TotalPrice, want)
			}
		})
	}
}

func TestLedgerDecreaseOrRemoveNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user := uuid.New()

	line, err := f.ledger.Add(ctx, user, margheritaID)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	t.Run("unknown line", func(t *testing.T) {
		err := f.ledger.DecreaseOrRemove(ctx, user, uuid.New(), true)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
	t.Run("dish id is not a line id", func(t *testing.T) {
		err := f.ledger.DecreaseOrRemove(ctx, user, margheritaID, true)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
	t.Run("line of another user", func(t *testing.T) {
		err := f.ledger.DecreaseOrRemove(ctx, uuid.New(), line.ID, false)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
	t.Run("line already ordered", func(t *testing.T) {
		if _, err := f.lifecycle.CreateOrder(ctx, user, "Main st 1", testDeliveryTime); err != nil {
			t.Fatalf("CreateOrder() error = %v", err)
		}
		err := f.ledger.DecreaseOrRemove(ctx, user, line.ID, true)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})
}
