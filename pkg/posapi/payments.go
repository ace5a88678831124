package posapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a payment against an order.
type CreatePaymentRequest struct {
	OrderID string          `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
}

// Payment is the backend's payment record.
type Payment struct {
	ID      string          `json:"id"`
	OrderID string          `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
}

// CreatePayment posts a payment record.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, "POST", "payments", req, &payment); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payment.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "backend returned a payment without id")
	}
	return &payment, nil
}

// GetPayment fetches a payment by id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	var payment Payment
	if err := c.do(ctx, "GET", fmt.Sprintf("payments/%s", url.PathEscape(paymentID)), nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
