package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusSnapshotOnSubscribe(t *testing.T) {
	bus := NewBus()
	bus.Publish("round/abc123", "v1")
	bus.Publish("round/abc123", "v2")

	var got []interface{}
	bus.Subscribe("round/abc123", func(payload interface{}) {
		got = append(got, payload)
	})

	// Only the latest publish is retained and delivered on subscribe.
	assert.Equal(t, []interface{}{"v2"}, got)

	bus.Publish("round/abc123", "v3")
	assert.Equal(t, []interface{}{"v2", "v3"}, got)
}

func TestBusNoSnapshotForFreshTopic(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe("players/abc123", func(interface{}) { called = true })
	assert.False(t, called)

	_, ok := bus.Retained("players/abc123")
	assert.False(t, ok)
}

func TestBusDeliveryOrder(t *testing.T) {
	bus := NewBus()

	var got []interface{}
	bus.Subscribe("round/abc123", func(payload interface{}) {
		got = append(got, payload)
	})

	for i := 0; i < 5; i++ {
		bus.Publish("round/abc123", i)
	}
	assert.Equal(t, []interface{}{0, 1, 2, 3, 4}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	var count int
	unsub := bus.Subscribe("round/abc123", func(interface{}) { count++ })

	bus.Publish("round/abc123", "v1")
	assert.Equal(t, 1, count)

	unsub()
	bus.Publish("round/abc123", "v2")
	assert.Equal(t, 1, count, "no delivery after unsubscribe")

	// Unsubscribing twice is harmless, and other subscribers keep working.
	var other int
	bus.Subscribe("round/abc123", func(interface{}) { other++ })
	unsub()
	bus.Publish("round/abc123", "v3")
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, other, "snapshot plus one publish")
}

func TestBusDrop(t *testing.T) {
	bus := NewBus()
	bus.Publish("player/abc123/alice", "state")
	bus.Drop("player/abc123/alice")

	_, ok := bus.Retained("player/abc123/alice")
	assert.False(t, ok)

	called := false
	bus.Subscribe("player/abc123/alice", func(interface{}) { called = true })
	assert.False(t, called, "no snapshot after drop")
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "players/abc123", PlayersTopic("abc123"))
	assert.Equal(t, "round/abc123", RoundTopic("abc123"))
	assert.Equal(t, "player/abc123/alice", PlayerTopic("abc123", "alice"))
}
