package middleware

import (
	"net/http"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/pkg/response"
)

// RequireRole creates a middleware that checks if the caller has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := GetSubjectFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if subject.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireDonor is a convenience middleware for donor-only endpoints
func RequireDonor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDonor)(next)
}

// RequireHospital is a convenience middleware for hospital-only endpoints
func RequireHospital(next http.Handler) http.Handler {
	return RequireRole(entity.RoleHospital)(next)
}
