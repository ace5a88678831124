package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/tablepos/api/middleware"
	"github.com/angelmondragon/tablepos/api/responses"
	"github.com/angelmondragon/tablepos/api/validators"
	"github.com/angelmondragon/tablepos/internal/tables"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

// TableCache is the active-table surface the handlers need.
type TableCache interface {
	Get(ctx context.Context, terminalID string) (*tables.Table, error)
	Set(ctx context.Context, terminalID string, table tables.Table) (*tables.Table, error)
	Clear(ctx context.Context, terminalID string) error
}

type setActiveTableRequest struct {
	ID   string `json:"id" validate:"required,max=64"`
	Name string `json:"name" validate:"max=120"`
}

// ActiveTableGet returns the terminal's active table, or null when none is set.
func ActiveTableGet(cache TableCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := cache.Get(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

func ActiveTableSet(cache TableCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setActiveTableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, err := cache.Set(r.Context(), middleware.TerminalIDFromContext(r.Context()), tables.Table{
			ID:   validators.SanitizeString(payload.ID, 64),
			Name: validators.SanitizeString(payload.Name, 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

func ActiveTableClear(cache TableCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cache.Clear(r.Context(), middleware.TerminalIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
