// Package payments records payments against placed orders and waits for them
// to settle.
package payments

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/posapi"
	"github.com/shopspring/decimal"
)

const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
	MethodOther    = "other"

	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

var validMethods = map[string]struct{}{
	MethodCash:     {},
	MethodCard:     {},
	MethodTransfer: {},
	MethodOther:    {},
}

// IsTerminal reports whether status is final.
func IsTerminal(status string) bool {
	switch strings.ToLower(status) {
	case StatusPaid, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type backend interface {
	CreatePayment(ctx context.Context, req posapi.CreatePaymentRequest) (*posapi.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*posapi.Payment, error)
}

// Input describes a payment taken at the terminal.
type Input struct {
	OrderID string
	Method  string
	Amount  decimal.Decimal
}

// Service exposes payment recording.
type Service interface {
	Create(ctx context.Context, input Input) (*posapi.Payment, error)
	Get(ctx context.Context, paymentID string) (*posapi.Payment, error)
}

type service struct {
	backend backend
}

func NewService(b backend) (Service, error) {
	if b == nil {
		return nil, errors.New("payments backend required")
	}
	return &service{backend: b}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*posapi.Payment, error) {
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	method := strings.ToLower(strings.TrimSpace(input.Method))
	if _, ok := validMethods[method]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method must be one of cash, card, transfer, other")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	payment, err := s.backend.CreatePayment(ctx, posapi.CreatePaymentRequest{
		OrderID: orderID,
		Method:  method,
		Amount:  input.Amount,
	})
	if err != nil {
		return nil, upstream(err, "payment creation failed")
	}
	return payment, nil
}

func (s *service) Get(ctx context.Context, paymentID string) (*posapi.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	payment, err := s.backend.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, upstream(err, "payment lookup failed")
	}
	return payment, nil
}

// upstream surfaces backend rejections with their message; transport failures stay dependency errors.
func upstream(err error, message string) error {
	msg := posapi.UpstreamMessage(err)
	if msg == "" {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, message).
		WithDetails(map[string]any{"upstream_message": msg})
}
