// Package requestid tags a single zanatactl invocation with an id that shows up
// in log lines and in the X-Request-ID header sent to the server.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the outbound header carrying the invocation id.
const Header = "X-Request-ID"

type ctxKey struct{}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Lookup returns the id stored in ctx, if any.
func Lookup(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// New generates an id and returns the enriched context with it.
func New(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}
