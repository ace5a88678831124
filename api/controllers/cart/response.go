package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/angelmondragon/tablepos/internal/cart"
)

type CartItem struct {
	Key       string             `json:"key"`
	ProductID string             `json:"product_id"`
	Name      string             `json:"name"`
	ImageRef  string             `json:"image_ref,omitempty"`
	BasePrice decimal.Decimal    `json:"base_price"`
	Modifiers []cartsvc.Modifier `json:"modifiers"`
	Note      string             `json:"note,omitempty"`
	Quantity  int                `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"unit_price"`
	LineTotal decimal.Decimal    `json:"line_total"`
}

// CartView is the cart as rendered on the terminal.
type CartView struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

func newCartView(state cartsvc.State) CartView {
	items := state.Items()
	view := CartView{
		Items:     make([]CartItem, 0, len(items)),
		Subtotal:  state.Subtotal,
		ItemCount: state.ItemCount,
	}
	for _, item := range items {
		mods := item.Modifiers
		if mods == nil {
			mods = []cartsvc.Modifier{}
		}
		view.Items = append(view.Items, CartItem{
			Key:       item.Key,
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			BasePrice: item.BasePrice,
			Modifiers: mods,
			Note:      item.Note,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}
	return view
}
