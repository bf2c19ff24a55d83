package services

import (
	"sync"
)

// Topic names for one session's documents.
func PlayersTopic(code string) string {
	return "players/" + code
}

func RoundTopic(code string) string {
	return "round/" + code
}

func PlayerTopic(code, key string) string {
	return "player/" + code + "/" + key
}

// Bus is the in-process fan-out for committed state changes. Every publish
// is retained, so a new subscriber immediately receives the current snapshot
// and then every later publish in commit order. Callbacks run synchronously
// on the publisher's goroutine under the bus lock, which is what guarantees
// commit ordering and that no callback fires after Unsubscribe returns, so
// they must not block and must not publish back into the bus.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	subs     map[string]map[int]func(payload interface{})
	retained map[string]interface{}
}

func NewBus() *Bus {
	return &Bus{
		subs:     make(map[string]map[int]func(interface{})),
		retained: make(map[string]interface{}),
	}
}

// Subscribe registers fn for a topic, delivering the retained snapshot
// first. The returned func removes the subscription and is safe to call any
// number of times.
func (b *Bus) Subscribe(topic string, fn func(payload interface{})) func() {
	b.mu.Lock()
	if snapshot, ok := b.retained[topic]; ok {
		fn(snapshot)
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func(interface{}))
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		if subs, ok := b.subs[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
	}
}

// Publish retains payload as the topic's current snapshot and delivers it to
// every subscriber.
func (b *Bus) Publish(topic string, payload interface{}) {
	b.mu.Lock()
	b.retained[topic] = payload
	for _, fn := range b.subs[topic] {
		fn(payload)
	}
	b.mu.Unlock()
}

// Retained returns the topic's current snapshot, if any has been published.
func (b *Bus) Retained(topic string) (interface{}, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snapshot, ok := b.retained[topic]
	return snapshot, ok
}

// Drop discards a topic's retained snapshot, used when a session's documents
// are deleted outright.
func (b *Bus) Drop(topic string) {
	b.mu.Lock()
	delete(b.retained, topic)
	b.mu.Unlock()
}
