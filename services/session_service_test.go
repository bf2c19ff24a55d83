package services

import (
	"context"
	"testing"

	"partygames/models"
	"partygames/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(store.NewMemory())

	session, err := svc.Create(ctx, models.VariantLetters)
	require.NoError(t, err)
	assert.Len(t, session.Code, 6)
	assert.Equal(t, models.VariantLetters, session.Variant)

	// The code round-trips through lookup regardless of casing.
	got, err := svc.Get(ctx, session.Code)
	require.NoError(t, err)
	assert.Equal(t, session.Code, got.Code)
}

func TestCreateSessionUnknownVariant(t *testing.T) {
	svc := NewSessionService(store.NewMemory())

	var validationErr *models.ValidationError
	_, err := svc.Create(context.Background(), "charades")
	require.ErrorAs(t, err, &validationErr)
}

func TestGetUnknownSession(t *testing.T) {
	svc := NewSessionService(store.NewMemory())

	_, err := svc.Get(context.Background(), "nosuch")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
