package services

import (
	"context"
	"testing"

	"partygames/models"
	"partygames/store"

	"github.com/stretchr/testify/require"
)

const testCode = "abc123"

func newTestSession(t *testing.T, variant string) store.Store {
	t.Helper()
	st := store.NewMemory()
	err := st.CreateSession(context.Background(), &models.Session{Code: testCode, Variant: variant})
	require.NoError(t, err)
	return st
}

func addPlayer(t *testing.T, st store.Store, key string) {
	t.Helper()
	err := st.UpsertPlayer(context.Background(), testCode, &models.Player{Key: key, Name: key})
	require.NoError(t, err)
}
