package jwt

import (
	"errors"
	"fmt"

	"blood-donor-service/config"
	"blood-donor-service/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
	ErrUnknownRole    = errors.New("token role is not donor or hospital")
)

// Claims is the identity provider's access token payload. The subject is the
// caller's donor or hospital id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService verifies tokens issued by the identity provider. It never
// issues tokens of its own.
type JWTService struct {
	config config.IdPConfig
	parser *jwt.Parser
}

func NewJWTService(cfg config.IdPConfig) *JWTService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWTService{
		config: cfg,
		parser: jwt.NewParser(opts...),
	}
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	if claims.Role != entity.RoleDonor && claims.Role != entity.RoleHospital {
		return nil, ErrUnknownRole
	}

	return claims, nil
}

// Caller converts verified claims into the caller identity
func (c *Claims) Caller() entity.Subject {
	return entity.Subject{ID: c.Subject, Role: c.Role}
}
