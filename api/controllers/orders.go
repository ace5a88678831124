package controllers

import (
	"net/http"

	"github.com/angelmondragon/tablepos/api/middleware"
	"github.com/angelmondragon/tablepos/api/responses"
	"github.com/angelmondragon/tablepos/api/validators"
	"github.com/angelmondragon/tablepos/internal/history"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

// RecentOrders lists orders recently placed at the terminal, newest first.
func RecentOrders(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", history.DefaultLimit, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.List(r.Context(), middleware.TerminalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(records) > limit {
			records = records[:limit]
		}
		responses.WriteSuccess(w, records)
	}
}
