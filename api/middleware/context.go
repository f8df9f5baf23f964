package middleware

import (
	"context"

	"github.com/angelmondragon/pos-backend/internal/access"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the caller resolved by Identity, or nil for
// anonymous requests.
func IdentityFromContext(ctx context.Context) *access.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*access.Identity); ok {
		return v
	}
	return nil
}

// WithIdentity injects the caller into the context.
func WithIdentity(ctx context.Context, id *access.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}
