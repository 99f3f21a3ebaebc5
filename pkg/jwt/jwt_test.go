package jwt

import (
	"errors"
	"testing"
	"time"

	"blood-donor-service/config"
	"blood-donor-service/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func claimsFor(subject, role string) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "https://idp.example.com",
			Audience:  jwt.ClaimStrings{"blood-donor-service"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService(config.IdPConfig{Secret: testSecret})

	claims, err := svc.ValidateToken(sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("donor-7", entity.RoleDonor)))

	require.NoError(t, err)
	assert.Equal(t, entity.Subject{ID: "donor-7", Role: entity.RoleDonor}, claims.Caller())
}

func TestValidateToken_Rejections(t *testing.T) {
	expired := claimsFor("h1", entity.RoleHospital)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := claimsFor("h1", entity.RoleHospital)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "wrong secret",
			token: func(t *testing.T) string { return sign(t, "other", jwt.SigningMethodHS256, claimsFor("h1", entity.RoleHospital)) },
			want:  ErrInvalidToken,
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return sign(t, testSecret, jwt.SigningMethodHS256, expired) },
			want:  ErrInvalidToken,
		},
		{
			name:  "no expiry",
			token: func(t *testing.T) string { return sign(t, testSecret, jwt.SigningMethodHS256, noExpiry) },
			want:  ErrInvalidToken,
		},
		{
			name:  "other hmac algorithm",
			token: func(t *testing.T) string { return sign(t, testSecret, jwt.SigningMethodHS512, claimsFor("h1", entity.RoleHospital)) },
			want:  ErrInvalidToken,
		},
		{
			name:  "missing subject",
			token: func(t *testing.T) string { return sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("", entity.RoleHospital)) },
			want:  ErrMissingSubject,
		},
		{
			name:  "unknown role",
			token: func(t *testing.T) string { return sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("a1", "admin")) },
			want:  ErrUnknownRole,
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-token" },
			want:  ErrInvalidToken,
		},
	}

	svc := NewJWTService(config.IdPConfig{Secret: testSecret})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateToken_IssuerAndAudience(t *testing.T) {
	token := sign(t, testSecret, jwt.SigningMethodHS256, claimsFor("d1", entity.RoleDonor))

	matching := NewJWTService(config.IdPConfig{
		Secret:   testSecret,
		Issuer:   "https://idp.example.com",
		Audience: "blood-donor-service",
	})
	_, err := matching.ValidateToken(token)
	assert.NoError(t, err)

	wrongIssuer := NewJWTService(config.IdPConfig{Secret: testSecret, Issuer: "https://evil.example.com"})
	_, err = wrongIssuer.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	wrongAudience := NewJWTService(config.IdPConfig{Secret: testSecret, Audience: "billing"})
	_, err = wrongAudience.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
