package middleware

import (
	"net/http"

	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

// RequireRole guards a route with a role check against the caller context set
// by Auth. Role enforcement lives here, outside the core services.
func RequireRole(role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetAccountIDFromContext(r.Context()); !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !utils.HasRoleInContext(r.Context(), role) {
				logger.Warn("Role check failed",
					zap.String("required_role", role),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
