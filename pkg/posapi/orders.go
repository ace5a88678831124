package posapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
)

// CreateOrderRequest opens an order shell on the backend.
type CreateOrderRequest struct {
	TableID string `json:"table_id,omitempty"`
	Channel string `json:"channel"`
}

// Order is the backend's view of an order shell.
type Order struct {
	ID      string `json:"id"`
	TableID string `json:"table_id,omitempty"`
	Channel string `json:"channel,omitempty"`
	Status  string `json:"status,omitempty"`
}

// AddOrderItemRequest attaches one cart line to an order.
type AddOrderItemRequest struct {
	ProductID   string   `json:"product_id"`
	Quantity    int      `json:"quantity"`
	Note        string   `json:"note,omitempty"`
	ModifierIDs []string `json:"modifier_ids"`
}

// OrderItem is the backend's record of an attached line.
type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrder posts a new order shell and returns its id.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, "POST", "orders", req, &order); err != nil {
		return nil, err
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend returned an order without id")
	}
	return &order, nil
}

// AddOrderItem attaches a single line to an existing order.
func (c *Client) AddOrderItem(ctx context.Context, orderID string, req AddOrderItemRequest) (*OrderItem, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if req.ModifierIDs == nil {
		req.ModifierIDs = []string{}
	}
	var item OrderItem
	path := fmt.Sprintf("orders/%s/items", url.PathEscape(orderID))
	if err := c.do(ctx, "POST", path, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
