package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tablepos/api/middleware"
	"github.com/angelmondragon/tablepos/api/responses"
	"github.com/angelmondragon/tablepos/api/validators"
	cartsvc "github.com/angelmondragon/tablepos/internal/cart"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

// Registry hands out the cart for a terminal.
type Registry interface {
	For(ctx context.Context, terminalID string) *cartsvc.Store
}

func storeFor(r *http.Request, carts Registry) (*cartsvc.Store, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	return carts.For(r.Context(), middleware.TerminalIDFromContext(r.Context())), nil
}

// CartFetch returns the terminal's current cart.
func CartFetch(carts Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFor(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.State()))
	}
}

// CartAddItem merges a menu product into the cart.
func CartAddItem(carts Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFor(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := store.AddItem(r.Context(), toAddInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartUpdateItem sets the quantity of a line. Zero removes the line.
func CartUpdateItem(carts Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFor(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := store.UpdateQuantity(r.Context(), chi.URLParam(r, "key"), *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

func CartRemoveItem(carts Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFor(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.RemoveItem(r.Context(), chi.URLParam(r, "key"))
		responses.WriteSuccess(w, newCartView(state))
	}
}

func CartClear(carts Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeFor(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store.Clear(r.Context())))
	}
}
