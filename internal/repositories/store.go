package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/interlude/internal/shared"
)

// Store loads and saves a whole [Registry].
type Store interface {
	// Load always returns a usable registry, even alongside an error.
	Load(ctx context.Context) (*Registry, error)
	// Save writes the registry without modifying it.
	Save(ctx context.Context, r *Registry) error
	Close() error
}

var (
	_ Store = (*JSONStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// NewStore opens the store selected by the storage config.
func NewStore(cfg shared.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", shared.BackendJSON:
		path := cfg.Path
		if path == "" {
			path = DefaultUsersFile
		}
		return NewJSONStore(path), nil
	case shared.BackendSQLite:
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, cfg.Backend)
	}
}
