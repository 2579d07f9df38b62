package cli

import (
	"fmt"

	"github.com/aretw0/calcgame/internal/config"
	"github.com/aretw0/calcgame/pkg/adapters/file"
	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/aretw0/calcgame/pkg/adapters/redis"
	"github.com/aretw0/calcgame/pkg/adapters/sqlite"
	"github.com/aretw0/calcgame/pkg/persistence/middleware"
	"github.com/aretw0/calcgame/pkg/ports"
)

// lockPrefix namespaces session locks apart from snapshot keys.
const lockPrefix = "calcgame:"

// Backend is an opened snapshot store, with a distributed locker when the
// store is shared between processes.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the store connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore creates the store selected by cfg, sealing snapshots when an
// encryption key is configured.
func OpenStore(cfg config.StoreConfig) (*Backend, error) {
	backend, err := openStore(cfg)
	if err != nil || !cfg.Encryption.Enabled() {
		return backend, err
	}

	active, fallback, err := cfg.Encryption.Keys()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallback,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	backend.Store = middleware.Chain(backend.Store, seal)
	return backend, nil
}

func openStore(cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Kind {
	case "", config.StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil
	case config.StoreFile:
		return &Backend{Store: file.New(cfg.Path)}, nil
	case config.StoreSQLite:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, close: store.Close}, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), lockPrefix),
			close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
