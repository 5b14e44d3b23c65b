package middleware

import (
	"net/http"
	"strings"

	"cinema-tickets/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth validates the bearer token and resolves the caller identity and role
// set into the request context. The core services downstream receive an
// already-authenticated caller; they never parse tokens themselves.
func Auth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("Invalid or expired auth token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token claims")
				return
			}

			sub, _ := claims["sub"].(string)
			accountID, err := uuid.Parse(sub)
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid token subject")
				return
			}

			var roles []string
			if rawRoles, ok := claims["roles"].([]interface{}); ok {
				for _, raw := range rawRoles {
					if role, ok := raw.(string); ok {
						roles = append(roles, role)
					}
				}
			}

			ctx := utils.SetCallerContext(r.Context(), accountID, roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
