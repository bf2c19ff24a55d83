package services

import (
	"context"
	"testing"

	"partygames/models"
	"partygames/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotentAcrossCasing(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewRegistryService(st, NewBus())

	first, err := svc.Register(ctx, testCode, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Key)
	assert.Equal(t, "Alice", first.Name)

	// Rejoining with a casing or whitespace variant lands on the same record.
	second, err := svc.Register(ctx, testCode, "  aLiCe ")
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Key)

	players, err := svc.List(ctx, testCode)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "aLiCe", players[0].Name, "latest display name wins")
}

func TestRegisterKeepsScoreOnRejoin(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewRegistryService(st, NewBus())

	_, err := svc.Register(ctx, testCode, "Alice")
	require.NoError(t, err)
	require.NoError(t, st.AddScore(ctx, testCode, "alice", 7))

	_, err = svc.Register(ctx, testCode, "alice")
	require.NoError(t, err)

	player, err := st.Player(ctx, testCode, "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, player.Score)
}

func TestRegisterEmptyName(t *testing.T) {
	st := newTestSession(t, models.VariantLetters)
	svc := NewRegistryService(st, NewBus())

	for _, name := range []string{"", "   "} {
		_, err := svc.Register(context.Background(), testCode, name)
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr, "name %q", name)
	}
}

func TestRegisterUnknownSession(t *testing.T) {
	st := store.NewMemory()
	svc := NewRegistryService(st, NewBus())

	_, err := svc.Register(context.Background(), "nosuch", "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedFixedRoster(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantQuiz)
	svc := NewRegistryService(st, NewBus())

	seeded, err := svc.Seed(ctx, testCode, []string{"Carol", "Alice", "Bob"})
	require.NoError(t, err)
	require.Len(t, seeded, 3)

	// The roster keeps the seeded order, not alphabetical.
	players, err := svc.List(ctx, testCode)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "Carol", players[0].Name)
	assert.Equal(t, "Alice", players[1].Name)
	assert.Equal(t, "Bob", players[2].Name)
}

func TestLookupNormalizesName(t *testing.T) {
	ctx := context.Background()
	st := newTestSession(t, models.VariantLetters)
	svc := NewRegistryService(st, NewBus())

	_, err := svc.Register(ctx, testCode, "Alice")
	require.NoError(t, err)

	player, err := svc.Lookup(ctx, testCode, " ALICE ")
	require.NoError(t, err)
	assert.Equal(t, "alice", player.Key)

	_, err = svc.Lookup(ctx, testCode, "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPlayerKey(t *testing.T) {
	assert.Equal(t, "alice", PlayerKey("  Alice "))
	assert.Equal(t, PlayerKey("BOB"), PlayerKey("bob"))
}
