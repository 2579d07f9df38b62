package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/aretw0/calcgame/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data  map[string]*domain.Snapshot
	saves int
	mu    sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[sessionID] = snap.Clone()
	s.saves++
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_ReadModifyWrite(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, domain.NewSnapshot(id)))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				snap, err := manager.Store().Load(ctx, id)
				if err != nil {
					return err
				}
				snap.Money++
				return manager.Store().Save(ctx, id, snap)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Number(10), snap.Money, "no increment may be lost")
}

func TestManager_LoadOrCreate(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.LoadOrCreate(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScreen, snap.Screen)
	assert.Equal(t, 1, store.saves, "only the first caller creates the session")
}

func TestManager_LoadMissing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("unavailable")
}

type countingLocker struct {
	mu       sync.Mutex
	ttl      time.Duration
	locked   int
	unlocked int
}

func (l *countingLocker) Lock(_ context.Context, _ string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ttl = ttl
	l.locked++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("lock is held around the operation", func(t *testing.T) {
		locker := &countingLocker{}
		manager := session.NewManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Minute))

		require.NoError(t, manager.Save(ctx, "s1", domain.NewSnapshot("s1")))
		assert.Equal(t, 1, locker.locked)
		assert.Equal(t, 1, locker.unlocked)
		assert.Equal(t, time.Minute, locker.ttl)
	})

	t.Run("lock failure aborts the operation", func(t *testing.T) {
		store := memory.NewStore()
		manager := session.NewManager(store, session.WithLocker(failingLocker{}))

		err := manager.Save(ctx, "s1", domain.NewSnapshot("s1"))
		assert.ErrorContains(t, err, "failed to acquire distributed lock")

		_, err = store.Load(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
