package auth

import (
	"context"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   models.Role
}

func (p Principal) Authenticated() bool {
	return p.UserID > 0
}

func (p Principal) IsManager() bool {
	return p.Authenticated() && p.Role == models.RoleManager
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the zero Principal when the request is anonymous.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKey{}).(Principal)
	return p
}
