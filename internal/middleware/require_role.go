package middleware

import (
	"net/http"

	"devcircle/rollcall/internal/auth"
	"devcircle/rollcall/internal/constants"
)

// RequireRole gates a route group behind a minimum platform role.
func RequireRole(min constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil || !claims.Role().AtLeast(min) {
				http.Error(w, "Forbidden. Insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsModeratorMiddleware gates moderator-and-up routes.
func IsModeratorMiddleware() func(http.Handler) http.Handler {
	return RequireRole(constants.RoleModerator)
}

// IsAdminMiddleware gates admin-only routes.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return RequireRole(constants.RoleAdmin)
}
