package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/storage"
	"github.com/shopspring/decimal"
)

// AddInput describes a product being added from the menu.
type AddInput struct {
	ProductID string
	Name      string
	ImageRef  string
	BasePrice decimal.Decimal
	Modifiers []Modifier
	Note      string
	Quantity  int
}

// Store owns one terminal's cart. Operations are serialized and each change
// is written through to durable storage.
type Store struct {
	mu      sync.Mutex
	state   State
	loaded  bool
	key     string
	backend storage.Store
	logg    *logger.Logger
}

func newStore(backend storage.Store, key string, logg *logger.Logger) *Store {
	return &Store{
		state:   Empty(),
		key:     key,
		backend: backend,
		logg:    logg,
	}
}

// Open loads the persisted snapshot at key and hydrates a Store from it.
// Missing or malformed snapshots start an empty cart. A failed read is retried
// on the next operation.
func Open(ctx context.Context, backend storage.Store, key string, logg *logger.Logger) *Store {
	s := newStore(backend, key, logg)
	s.mu.Lock()
	s.hydrate(ctx)
	s.mu.Unlock()
	return s
}

// hydrate loads the snapshot until one read settles. Callers hold s.mu.
func (s *Store) hydrate(ctx context.Context) {
	if s.loaded {
		return
	}

	raw, err := s.backend.Get(context.WithoutCancel(ctx), s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.loaded = true
		return
	case err != nil:
		s.logg.Warn(ctx, "cart snapshot unreadable, will retry: "+err.Error())
		return
	}
	s.loaded = true

	items, err := DecodeSnapshot(raw)
	if err != nil {
		s.logg.Warn(ctx, "cart snapshot malformed, starting empty: "+err.Error())
		return
	}
	s.state, _ = Reduce(Empty(), Hydrate{Items: items})
	if s.state.IsEmpty() && len(items) > 0 {
		s.logg.Warn(ctx, "cart snapshot rejected, starting empty")
	}
}

// State returns the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(context.Background())
	return s.state
}

// AddItem merges a product into the cart. Quantities below one count as one.
// A merge that would take the line past MaxQuantity is rejected.
func (s *Store) AddItem(ctx context.Context, in AddInput) (State, error) {
	if in.BasePrice.IsNegative() {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "base price must not be negative")
	}
	for _, m := range in.Modifiers {
		if m.Price.IsNegative() {
			return State{}, pkgerrors.New(pkgerrors.CodeValidation, "modifier price must not be negative")
		}
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.Quantity > MaxQuantity {
		return State{}, quantityTooLarge()
	}

	item := LineItem{
		ProductID: in.ProductID,
		Name:      in.Name,
		ImageRef:  in.ImageRef,
		BasePrice: in.BasePrice,
		Modifiers: in.Modifiers,
		Note:      in.Note,
		Quantity:  in.Quantity,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	if existing, ok := s.state.Item(Key(item.ProductID, item.Modifiers, item.Note)); ok && existing.Quantity+item.Quantity > MaxQuantity {
		return State{}, quantityTooLarge()
	}
	return s.apply(ctx, Add{Item: item}), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) (State, error) {
	if quantity > MaxQuantity {
		return State{}, quantityTooLarge()
	}
	return s.dispatch(ctx, SetQuantity{Key: key, Quantity: quantity}), nil
}

func (s *Store) RemoveItem(ctx context.Context, key string) State {
	return s.dispatch(ctx, Remove{Key: key})
}

// Settle removes the quantities of lines that were handed off, keeping anything
// added since they were read.
func (s *Store) Settle(ctx context.Context, taken State) State {
	quantities := make(map[string]int, taken.Len())
	for _, item := range taken.Items() {
		quantities[item.Key] = item.Quantity
	}
	return s.dispatch(ctx, Deduct{Quantities: quantities})
}

// Clear empties the cart and deletes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) State {
	return s.dispatch(ctx, Clear{})
}

func (s *Store) dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)
	return s.apply(ctx, action)
}

// apply runs action against the current state. Callers hold s.mu.
func (s *Store) apply(ctx context.Context, action Action) State {
	next, changed := Reduce(s.state, action)
	s.state = next
	if changed {
		s.persist(ctx)
	}
	return next
}

// persist writes the snapshot, deleting it once the cart is empty. Failures are
// logged; the in-memory cart stays authoritative.
func (s *Store) persist(ctx context.Context) {
	var err error
	if s.state.IsEmpty() {
		err = s.backend.Delete(ctx, s.key)
	} else {
		err = storage.SetJSON(ctx, s.backend, s.key, SnapshotOf(s.state))
	}
	if err != nil {
		s.logg.Error(ctx, "failed to persist cart snapshot", err)
		return
	}
	s.loaded = true
}

func quantityTooLarge() error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must not exceed %d", MaxQuantity))
}
