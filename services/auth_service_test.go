package services

import (
	"context"
	"testing"

	"partygames/models"
	"partygames/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemory(), "test-secret")

	admin, err := svc.Register(ctx, "Host@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", admin.Email)
	assert.NotEqual(t, "correct-horse", admin.PasswordHash)

	tokenString, err := svc.Login(ctx, "host@example.com", "correct-horse")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "host@example.com", claims["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemory(), "test-secret")

	_, err := svc.Register(ctx, "host@example.com", "correct-horse")
	require.NoError(t, err)

	var validationErr *models.ValidationError
	_, err = svc.Login(ctx, "host@example.com", "wrong-horse")
	require.ErrorAs(t, err, &validationErr)

	// Unknown accounts fail the same way as bad passwords.
	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	require.ErrorAs(t, err, &validationErr)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(store.NewMemory(), "test-secret")

	var validationErr *models.ValidationError
	_, err := svc.Register(ctx, "", "correct-horse")
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Register(ctx, "host@example.com", "short")
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Register(ctx, "host@example.com", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "HOST@example.com", "correct-horse")
	require.ErrorAs(t, err, &validationErr, "duplicate email")
}
