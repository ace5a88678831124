// Package cart holds the terminal's shopping cart: line items deduplicated by
// product, modifier set and note, with totals recomputed on every change.
package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Modifier is an add-on whose price is added to the unit price.
type Modifier struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem is one aggregated cart line.
type LineItem struct {
	Key       string
	ProductID string
	Name      string
	ImageRef  string
	BasePrice decimal.Decimal
	Modifiers []Modifier
	Note      string
	Quantity  int
}

// UnitPrice is the base price plus every modifier price.
func (l LineItem) UnitPrice() decimal.Decimal {
	total := l.BasePrice
	for _, m := range l.Modifiers {
		total = total.Add(m.Price)
	}
	return total
}

// LineTotal is the unit price times the quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ModifierIDs lists the modifier ids in cart order.
func (l LineItem) ModifierIDs() []string {
	ids := make([]string, 0, len(l.Modifiers))
	for _, m := range l.Modifiers {
		ids = append(ids, m.ID)
	}
	return ids
}

// Key derives the identity of a line from the product, the modifier set and
// the note. Modifier order is ignored and notes compare case-insensitively
// after trimming.
func Key(productID string, modifiers []Modifier, note string) string {
	parts := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		parts = append(parts, m.ID+":"+m.Price.String())
	}
	sort.Strings(parts)

	canonical := strings.Join([]string{
		strings.TrimSpace(productID),
		strings.Join(parts, ","),
		normalizeNote(note),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:16])
}

func normalizeNote(note string) string {
	return strings.ToLower(strings.TrimSpace(note))
}

func cloneModifiers(in []Modifier) []Modifier {
	if len(in) == 0 {
		return nil
	}
	out := make([]Modifier, len(in))
	copy(out, in)
	return out
}
