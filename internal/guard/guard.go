// Package guard decides who may touch what. There are two capability levels: an
// authenticated admin, identified by the id in a verified token, and the anonymous
// public. Admins may mutate only what they own; everything readable by the public stays
// readable without a principal.
package guard

import (
	"context"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

// Owned is implemented by resources that belong to an admin.
type Owned interface {
	OwnerID() string
}

// Principal is the authenticated admin behind a request.
type Principal struct {
	AdminID string
	Email   string
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the request's admin, if the request was authenticated.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok && p.AdminID != ""
}

// Require returns the request's admin or an auth error for anonymous callers.
func Require(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, apperr.Auth("authentication required")
	}
	return p, nil
}

// CanMutate reports whether adminID owns the resource.
func CanMutate(r Owned, adminID string) bool {
	return adminID != "" && r.OwnerID() == adminID
}

// Authorize is CanMutate as an error.
func Authorize(r Owned, adminID string) error {
	if !CanMutate(r, adminID) {
		return apperr.Forbidden("Unauthorized")
	}
	return nil
}
