package rbac

import "context"

type ctxKey string

const principalKey ctxKey = "principal"

// Principal is the authenticated identity attached to a request context.
// It is rebuilt from the access token claims on every request; the role is
// the role at token issuance time, not re-read from the store.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
