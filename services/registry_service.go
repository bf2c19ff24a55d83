package services

import (
	"context"
	"strings"

	"partygames/models"
	"partygames/store"
)

// RegistryService maintains the roster for a session. Identity is the
// normalized display name, so signing up twice with "Alice" and " alice "
// lands on the same player record.
type RegistryService struct {
	store store.Store
	bus   *Bus
}

func NewRegistryService(st store.Store, bus *Bus) *RegistryService {
	return &RegistryService{store: st, bus: bus}
}

// PlayerKey derives the stable player key from a display name.
func PlayerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register creates the player, or merges the display name into the existing
// record with the same key.
func (s *RegistryService) Register(ctx context.Context, code, name string) (*models.Player, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, models.NewValidationError("player name cannot be empty")
	}

	player := &models.Player{
		Key:  PlayerKey(trimmed),
		Name: trimmed,
	}
	if err := s.store.UpsertPlayer(ctx, code, player); err != nil {
		return nil, err
	}

	publishRoster(ctx, s.store, s.bus, code)
	publishPlayer(ctx, s.store, s.bus, code, player.Key)
	return player, nil
}

// Seed replaces free sign-up for quiz games that run with a fixed roster:
// the admin supplies the player list up front and each player gets a stable
// display order.
func (s *RegistryService) Seed(ctx context.Context, code string, names []string) ([]models.Player, error) {
	players := make([]models.Player, 0, len(names))
	for i, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, models.NewValidationError("player name cannot be empty")
		}
		player := models.Player{
			Key:   PlayerKey(trimmed),
			Name:  trimmed,
			Order: i + 1,
		}
		if err := s.store.UpsertPlayer(ctx, code, &player); err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	publishRoster(ctx, s.store, s.bus, code)
	return players, nil
}

// List returns the roster in display order: assigned order first, then
// sign-up time.
func (s *RegistryService) List(ctx context.Context, code string) ([]models.Player, error) {
	return s.store.Players(ctx, code)
}

// Lookup finds a player by any casing or whitespace variant of their name.
func (s *RegistryService) Lookup(ctx context.Context, code, name string) (*models.Player, error) {
	return s.store.Player(ctx, code, PlayerKey(name))
}
