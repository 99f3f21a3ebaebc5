package middleware

import (
	"context"
	"net/http"
	"strings"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/pkg/jwt"
	"blood-donor-service/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const SubjectKey contextKey = "subject"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.log.Debugf("Rejected bearer token: %v", err)
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := WithSubject(r.Context(), claims.Caller())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSubject stores the authenticated caller in ctx
func WithSubject(ctx context.Context, subject entity.Subject) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// GetSubjectFromContext extracts the authenticated caller from context
func GetSubjectFromContext(ctx context.Context) (entity.Subject, bool) {
	subject, ok := ctx.Value(SubjectKey).(entity.Subject)
	return subject, ok
}
