// Package events announces placed orders to the kitchen and other listeners.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is published once an order has been created and populated.
type OrderPlaced struct {
	OrderID    string          `json:"order_id"`
	TerminalID string          `json:"terminal_id"`
	TableID    string          `json:"table_id,omitempty"`
	Channel    string          `json:"channel"`
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	PlacedAt   time.Time       `json:"placed_at"`
	Items      []OrderLine     `json:"items"`
}

// OrderLine is the kitchen's view of one line.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// Publisher delivers order notifications.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (Noop) Close() error { return nil }
