package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/lottery/pkg/pubsub"
)

// MockPublisher keeps every pack it is given, grouped by topic. PublishFunc
// replaces that behavior when set.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu        sync.Mutex
	published map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.published == nil {
		m.published = map[string][]*pubsub.Pack{}
	}
	m.published[topic] = append(m.published[topic], pack)
	return nil
}

// Packs returns the packs published to topic, oldest first.
func (m *MockPublisher) Packs(topic string) []*pubsub.Pack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*pubsub.Pack(nil), m.published[topic]...)
}

// Topics returns how many packs each topic received.
func (m *MockPublisher) Topics() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int, len(m.published))
	for topic, packs := range m.published {
		counts[topic] = len(packs)
	}
	return counts
}
