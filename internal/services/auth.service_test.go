package services

import (
	"testing"
	"time"

	"roomlog/config"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	service, err := NewAuthService(config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "roomlog-test",
		JWTExpiryHours: 1,
	})
	require.NoError(t, err)
	return service
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(config.Config{JWTSecret: "   "})
	assert.Error(t, err)
}

func TestAuthService_IssueAndVerifyToken(t *testing.T) {
	service := newTestAuthService(t)
	user := &models.User{Nickname: "player"}
	user.ID = 42

	token, err := service.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	claims, err := service.VerifyToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "roomlog-test", claims.Issuer)
}

func TestAuthService_IssueToken_RejectsUnsavedUser(t *testing.T) {
	service := newTestAuthService(t)

	_, err := service.IssueToken(&models.User{})
	assert.Error(t, err)
}

func TestAuthService_VerifyToken_Rejects(t *testing.T) {
	service := newTestAuthService(t)
	now := time.Now().UTC()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims TokenClaims) string {
		signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return signed
	}

	validClaims := func() TokenClaims {
		return TokenClaims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "roomlog-test",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-token" },
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims())
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
				return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), claims)
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), claims)
			},
		},
		{
			name: "missing user id",
			token: func(t *testing.T) string {
				claims := validClaims()
				claims.UserID = 0
				return sign(t, jwt.SigningMethodHS256, []byte("test-secret"), claims)
			},
		},
		{
			name: "unexpected algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte("test-secret"), validClaims())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyToken(tt.token(t))
			assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
		})
	}
}

func TestAuthService_Passwords(t *testing.T) {
	service := newTestAuthService(t)

	hash, err := service.HashPassword("escape-the-room")
	require.NoError(t, err)
	assert.NotEqual(t, "escape-the-room", hash)

	assert.True(t, service.VerifyPassword(hash, "escape-the-room"))
	assert.False(t, service.VerifyPassword(hash, "wrong"))
	assert.False(t, service.VerifyPassword("", "escape-the-room"))

	_, err = service.HashPassword("  ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
