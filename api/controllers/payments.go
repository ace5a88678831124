package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tablepos/api/responses"
	"github.com/angelmondragon/tablepos/api/validators"
	"github.com/angelmondragon/tablepos/internal/payments"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/posapi"
)

// PaymentAwaiter blocks until a payment reaches a final status.
type PaymentAwaiter interface {
	Await(ctx context.Context, paymentID string) (*posapi.Payment, error)
}

type createPaymentRequest struct {
	OrderID string           `json:"order_id" validate:"required,max=64"`
	Method  string           `json:"method" validate:"required"`
	Amount  *decimal.Decimal `json:"amount" validate:"required"`
}

func PaymentCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.Create(r.Context(), payments.Input{
			OrderID: payload.OrderID,
			Method:  payload.Method,
			Amount:  *payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

func PaymentGet(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payment, err := svc.Get(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// PaymentAwait polls the backend until the payment settles or the poll times out.
func PaymentAwait(poller PaymentAwaiter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if poller == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment poller unavailable"))
			return
		}
		payment, err := poller.Await(r.Context(), chi.URLParam(r, "paymentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}
