package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tablepos/api/validators"
	cartsvc "github.com/angelmondragon/tablepos/internal/cart"
)

type ModifierRequest struct {
	ID    string           `json:"id" validate:"required,max=64"`
	Name  string           `json:"name" validate:"max=120"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// AddItemRequest is a product picked from the menu.
type AddItemRequest struct {
	ProductID string            `json:"product_id" validate:"required,max=64"`
	Name      string            `json:"name" validate:"required,max=200"`
	ImageRef  string            `json:"image_ref" validate:"max=500"`
	BasePrice *decimal.Decimal  `json:"base_price" validate:"required"`
	Modifiers []ModifierRequest `json:"modifiers" validate:"max=50,dive"`
	Note      string            `json:"note" validate:"max=500"`
	Quantity  int               `json:"quantity" validate:"gte=0,lte=999"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=999"`
}

func toAddInput(req AddItemRequest) cartsvc.AddInput {
	mods := make([]cartsvc.Modifier, 0, len(req.Modifiers))
	for _, m := range req.Modifiers {
		mods = append(mods, cartsvc.Modifier{
			ID:    validators.SanitizeString(m.ID, 64),
			Name:  validators.SanitizeString(m.Name, 120),
			Price: *m.Price,
		})
	}
	return cartsvc.AddInput{
		ProductID: validators.SanitizeString(req.ProductID, 64),
		Name:      validators.SanitizeString(req.Name, 200),
		ImageRef:  validators.SanitizeString(req.ImageRef, 500),
		BasePrice: *req.BasePrice,
		Modifiers: mods,
		Note:      req.Note,
		Quantity:  req.Quantity,
	}
}
