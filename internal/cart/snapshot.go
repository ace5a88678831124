package cart

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of a cart. Keys and totals are derived on load.
type Snapshot struct {
	Items []SnapshotItem `json:"items"`
}

type SnapshotItem struct {
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	ImageRef  string           `json:"image_ref,omitempty"`
	BasePrice *decimal.Decimal `json:"base_price"`
	Modifiers []Modifier       `json:"modifiers,omitempty"`
	Note      string           `json:"note,omitempty"`
	Quantity  int              `json:"quantity"`
}

// SnapshotOf captures the lines of state for persistence.
func SnapshotOf(state State) Snapshot {
	items := state.Items()
	out := Snapshot{Items: make([]SnapshotItem, 0, len(items))}
	for _, item := range items {
		price := item.BasePrice
		out.Items = append(out.Items, SnapshotItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			BasePrice: &price,
			Modifiers: item.Modifiers,
			Note:      item.Note,
			Quantity:  item.Quantity,
		})
	}
	return out
}

// DecodeSnapshot parses persisted bytes. Any shape other than an object with
// an items list is reported as an error.
func DecodeSnapshot(raw []byte) ([]SnapshotItem, error) {
	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	var items []SnapshotItem
	if err := json.Unmarshal(envelope.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (e SnapshotItem) lineItem() (LineItem, bool) {
	if strings.TrimSpace(e.ProductID) == "" || e.BasePrice == nil || e.Quantity < 1 {
		return LineItem{}, false
	}
	if e.BasePrice.IsNegative() {
		return LineItem{}, false
	}
	for _, m := range e.Modifiers {
		if m.Price.IsNegative() {
			return LineItem{}, false
		}
	}
	return LineItem{
		ProductID: e.ProductID,
		Name:      e.Name,
		ImageRef:  e.ImageRef,
		BasePrice: *e.BasePrice,
		Modifiers: e.Modifiers,
		Note:      e.Note,
		Quantity:  e.Quantity,
	}, true
}
