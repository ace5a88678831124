package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/angelmondragon/tablepos/api/responses"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
)

const terminalIDHeader = "X-Terminal-Id"

var terminalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Terminal reads the terminal id header. Terminal ids become part of storage
// keys, so anything outside [A-Za-z0-9_-] is rejected.
func Terminal(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			terminalID := strings.TrimSpace(r.Header.Get(terminalIDHeader))
			if terminalID == "" {
				terminalID = DefaultTerminalID
			}
			if !terminalIDPattern.MatchString(terminalID) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid terminal id").
					WithDetails(map[string]any{"header": terminalIDHeader}))
				return
			}

			ctx := WithTerminalID(r.Context(), terminalID)
			if logg != nil {
				ctx = logg.WithTerminalID(ctx, terminalID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
