package handlers

import "context"

// Principal is the authenticated actor injected by the auth middleware.
type Principal struct {
	ID    string
	Email string
	Role  string
}

type ctxKey int

const principalKey ctxKey = iota

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
