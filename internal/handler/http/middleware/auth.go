package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type principalContextKey struct{}

// AuthRequired accepts verified access tokens and stores the caller in the
// request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, user.ErrInvalidToken)
				return
			}

			role, _ := claims["role"].(string)
			isAdmin, _ := claims["is_admin"].(bool)
			userID, _ := claims["user_id"].(string)

			principal := user.Principal{UserID: userID, Role: user.Role(role), IsAdmin: isAdmin}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFromContext returns the caller set by AuthRequired. The zero
// Principal holds no permissions.
func PrincipalFromContext(ctx context.Context) user.Principal {
	p, _ := ctx.Value(principalContextKey{}).(user.Principal)
	return p
}

// WithPrincipal stores p as the caller.
func WithPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}
