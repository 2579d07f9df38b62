package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/ports"
)

// MockStore keeps deep copies of snapshots, like a serialising store would.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Snapshot
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]*domain.Snapshot)}
}

func (m *MockStore) Save(_ context.Context, sessionID string, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = snap.Clone()
	return nil
}

func (m *MockStore) Load(_ context.Context, sessionID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snap.Clone(), nil
}

func (m *MockStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestSnapshotStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, NewMockStore())
}
