package middleware

import "context"

type contextKey string

const (
	ctxTerminalID contextKey = "terminal_id"
)

// DefaultTerminalID is used when a request does not name its terminal.
const DefaultTerminalID = "default"

// TerminalIDFromContext returns the terminal the request was made from.
func TerminalIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultTerminalID
	}
	if v, ok := ctx.Value(ctxTerminalID).(string); ok && v != "" {
		return v
	}
	return DefaultTerminalID
}

// WithTerminalID injects the terminal identifier into the context for downstream handlers.
func WithTerminalID(ctx context.Context, terminalID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTerminalID, terminalID)
}
