package controller

import (
	"sync"
	"testing"

	"github.com/gartstein/hrms/internal/hr/events"
	"github.com/gartstein/hrms/internal/hr/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
)

// MockProducer records produced events for assertions.
type MockProducer struct {
	mu       sync.Mutex
	produced []producedEvent
	wg       *sync.WaitGroup
}

type producedEvent struct {
	Type       events.EventType
	Collection string
	EntityID   string
}

func (m *MockProducer) Produce(eventType events.EventType, collection, entityID string, _ any) {
	m.mu.Lock()
	m.produced = append(m.produced, producedEvent{eventType, collection, entityID})
	m.mu.Unlock()
	if m.wg != nil {
		m.wg.Done()
	}
}

func (m *MockProducer) Events() []producedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]producedEvent(nil), m.produced...)
}

// newTestStore opens an in-memory SQLite document store.
func newTestStore(t *testing.T) *store.Client {
	client, err := store.New(sqlite.Open(":memory:"), zaptest.NewLogger(t))
	require.NoError(t, err, "failed to open test store")
	return client
}
