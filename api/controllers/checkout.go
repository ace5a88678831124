package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/tablepos/api/middleware"
	"github.com/angelmondragon/tablepos/api/responses"
	"github.com/angelmondragon/tablepos/api/validators"
	"github.com/angelmondragon/tablepos/internal/checkout"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

type checkoutRequest struct {
	TableID string `json:"table_id" validate:"max=64"`
	Channel string `json:"channel" validate:"omitempty,oneof=dine_in takeaway"`
}

// Checkout places the terminal's cart as an order. A ?table= query parameter
// takes precedence over table_id in the body.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkout.Input{TableID: payload.TableID, Channel: payload.Channel}
		if table := strings.TrimSpace(r.URL.Query().Get("table")); table != "" {
			input.TableID = table
		}

		conf, err := svc.Checkout(r.Context(), middleware.TerminalIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteErrorMessage(r.Context(), logg, w, err, checkout.UserMessage(err))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, conf)
	}
}
