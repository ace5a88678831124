package cart

import "strings"

// MaxQuantity bounds a single line's quantity.
const MaxQuantity = 999

// Action is a cart transition. The set is closed: Add, SetQuantity, Remove,
// Deduct, Clear and Hydrate.
type Action interface {
	isAction()
}

// Add merges Item into the cart. Lines with the same key have their quantities summed.
type Add struct {
	Item LineItem
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
type SetQuantity struct {
	Key      string
	Quantity int
}

// Remove drops a line.
type Remove struct {
	Key string
}

// Deduct lowers each keyed line by the given quantity, removing lines that
// reach zero. Keys no longer in the cart are ignored.
type Deduct struct {
	Quantities map[string]int
}

// Clear empties the cart.
type Clear struct{}

// Hydrate replaces the cart with persisted snapshot entries.
type Hydrate struct {
	Items []SnapshotItem
}

func (Add) isAction()         {}
func (SetQuantity) isAction() {}
func (Remove) isAction()      {}
func (Deduct) isAction()      {}
func (Clear) isAction()       {}
func (Hydrate) isAction()     {}

// Reduce applies action to state and reports whether the lines changed.
// The input state is never modified.
func Reduce(state State, action Action) (State, bool) {
	if state.items == nil {
		state = Empty()
	}

	switch a := action.(type) {
	case Add:
		next := state.clone()
		next.merge(a.Item)
		return next.withTotals(), true

	case SetQuantity:
		existing, ok := state.items[a.Key]
		if !ok {
			return state, false
		}
		if a.Quantity <= 0 {
			return state.without(a.Key), true
		}
		quantity := min(a.Quantity, MaxQuantity)
		if existing.Quantity == quantity {
			return state, false
		}
		next := state.clone()
		existing.Quantity = quantity
		next.items[a.Key] = existing
		return next.withTotals(), true

	case Remove:
		if _, ok := state.items[a.Key]; !ok {
			return state, false
		}
		return state.without(a.Key), true

	case Deduct:
		next := state
		changed := false
		for key, qty := range a.Quantities {
			existing, ok := next.items[key]
			if !ok || qty <= 0 {
				continue
			}
			if existing.Quantity <= qty {
				next = next.without(key)
			} else {
				next = next.clone()
				existing.Quantity -= qty
				next.items[key] = existing
			}
			changed = true
		}
		if !changed {
			return state, false
		}
		return next.withTotals(), true

	case Clear:
		return Empty(), !state.IsEmpty()

	case Hydrate:
		next := Empty()
		for _, entry := range a.Items {
			item, ok := entry.lineItem()
			if !ok {
				return Empty(), !state.IsEmpty()
			}
			next.merge(item)
		}
		return next.withTotals(), true
	}

	return state, false
}

// merge adds item to a cloned state, keying it and normalizing its fields.
func (s *State) merge(item LineItem) {
	item.Quantity = max(1, min(item.Quantity, MaxQuantity))
	item.Note = strings.TrimSpace(item.Note)
	item.Modifiers = cloneModifiers(item.Modifiers)
	item.Key = Key(item.ProductID, item.Modifiers, item.Note)

	if existing, ok := s.items[item.Key]; ok {
		existing.Quantity = min(existing.Quantity+item.Quantity, MaxQuantity)
		s.items[item.Key] = existing
		return
	}
	s.order = append(s.order, item.Key)
	s.items[item.Key] = item
}

func (s State) without(key string) State {
	next := s.clone()
	delete(next.items, key)
	for i, k := range next.order {
		if k == key {
			next.order = append(next.order[:i], next.order[i+1:]...)
			break
		}
	}
	return next.withTotals()
}
