package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
	"github.com/georgemunganga/medexpress-backend/internal/platform/httpx"
)

// Authenticate requires a valid bearer token and stores the Principal in the request context.
func Authenticate(tokens *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				httpx.Error(w, r, apperr.Unauthenticated("not authorized, no token"))
				return
			}
			p, err := tokens.Verify(parts[1])
			if err != nil {
				httpx.Error(w, r, apperr.Unauthenticated("not authorized, token failed"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole rejects principals whose role is not listed. It must run after Authenticate.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.Error(w, r, apperr.Unauthenticated("not authorized"))
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, r, apperr.Forbidden("role %s is not authorized to access this route", p.Role))
		})
	}
}
