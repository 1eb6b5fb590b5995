package http

import (
	"context"

	"github.com/driveway/driveway/internal/domain"
)

type principalKey struct{}

// withPrincipal stores the authenticated principal on the request context.
func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if any. Handlers
// behind Authenticate can rely on ok being true; handlers behind
// OptionalAuthenticate must check it.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
