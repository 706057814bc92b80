package auth

import (
	"context"
	"net/http"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/google/uuid"
)

// Principal is the authenticated identity resolved once per request.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

func (p Principal) IsCustomer() bool { return p.Role == user.RoleCustomer }
func (p Principal) IsAgent() bool    { return p.Role == user.RoleAgent }
func (p Principal) IsAdmin() bool    { return p.Role == user.RoleAdmin }

type principalKey struct{}

// WithPrincipal attaches p to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequestPrincipal returns the request's principal or an Unauthenticated error.
func RequestPrincipal(r *http.Request) (Principal, error) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		return Principal{}, apperr.Unauthenticated("not authorized")
	}
	return p, nil
}

// RequestUserID returns the authenticated user's id.
func RequestUserID(r *http.Request) (uuid.UUID, error) {
	p, err := RequestPrincipal(r)
	if err != nil {
		return uuid.Nil, err
	}
	return p.UserID, nil
}
