package services

import (
	"context"
	"log"

	"partygames/store"
)

// publishRoster pushes the full roster snapshot for a session. Called after
// every committed roster mutation, before control returns to the caller, so
// observers only ever see whole states.
func publishRoster(ctx context.Context, st store.Store, bus *Bus, code string) {
	players, err := st.Players(ctx, code)
	if err != nil {
		log.Printf("publish roster for %s: %v", code, err)
		return
	}
	bus.Publish(PlayersTopic(code), players)
}

// publishPlayer pushes one player's own document, feeding the single-player
// subscription a client holds for its own view.
func publishPlayer(ctx context.Context, st store.Store, bus *Bus, code, key string) {
	player, err := st.Player(ctx, code, key)
	if err != nil {
		log.Printf("publish player %s/%s: %v", code, key, err)
		return
	}
	bus.Publish(PlayerTopic(code, key), player)
}
