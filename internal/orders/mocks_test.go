package orders

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
)

var (
	margheritaID = uuid.MustParse("6c1f1d2e-4a8b-4f4e-9a51-000000000001")
	colaID       = uuid.MustParse("6c1f1d2e-4a8b-4f4e-9a51-000000000008")
)

type recordedEvent struct {
	kind    string
	userID  uuid.UUID
	orderID uuid.UUID
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) OrderCreated(_ context.Context, userID uuid.UUID, o Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{kind: EventOrderCreated, userID: userID, orderID: o.ID})
}

func (f *fakeEvents) OrderDelivered(_ context.Context, userID uuid.UUID, o Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{kind: EventOrderDelivered, userID: userID, orderID: o.ID})
}

func (f *fakeEvents) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.kind)
	}
	return out
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []kafkago.Message
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, kafkago.Message{Key: key, Value: value, Headers: headers})
}

type fixture struct {
	store     *MemoryStore
	dishes    *catalog.MemoryRepo
	events    *fakeEvents
	ledger    *Ledger
	lifecycle *Lifecycle
}

// newFixture wires a ledger and a lifecycle over one memory store. The clock
// advances a second on every call so ordering by time is deterministic.
func newFixture() *fixture {
	store := NewMemoryStore()
	dishes := catalog.NewMemoryRepo(catalog.SampleDishes()...)
	events := &fakeEvents{}

	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	ledger := NewLedger(store, dishes, zap.NewNop())
	ledger.now = clock
	lifecycle := NewLifecycle(store, events, zap.NewNop())
	lifecycle.now = clock
	return &fixture{store: store, dishes: dishes, events: events, ledger: ledger, lifecycle: lifecycle}
}
