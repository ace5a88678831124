package cart

import "github.com/shopspring/decimal"

// State is an immutable cart value. Reduce returns a new State for every change.
type State struct {
	order []string
	items map[string]LineItem

	Subtotal  decimal.Decimal
	ItemCount int
}

// Empty returns a cart with no lines.
func Empty() State {
	return State{items: map[string]LineItem{}, Subtotal: decimal.Zero}
}

// Items returns the lines in insertion order.
func (s State) Items() []LineItem {
	out := make([]LineItem, 0, len(s.order))
	for _, key := range s.order {
		item := s.items[key]
		item.Modifiers = cloneModifiers(item.Modifiers)
		out = append(out, item)
	}
	return out
}

// Item looks up a line by key.
func (s State) Item(key string) (LineItem, bool) {
	item, ok := s.items[key]
	item.Modifiers = cloneModifiers(item.Modifiers)
	return item, ok
}

func (s State) Len() int {
	return len(s.order)
}

func (s State) IsEmpty() bool {
	return len(s.order) == 0
}

func (s State) clone() State {
	next := State{
		order: make([]string, len(s.order)),
		items: make(map[string]LineItem, len(s.items)),
	}
	copy(next.order, s.order)
	for k, v := range s.items {
		next.items[k] = v
	}
	return next
}

// withTotals recomputes the derived fields from the lines.
func (s State) withTotals() State {
	subtotal := decimal.Zero
	count := 0
	for _, key := range s.order {
		item := s.items[key]
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}
	s.Subtotal = subtotal
	s.ItemCount = count
	return s
}
