// Package bootstrap opens the configured storage backend.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/store"
	"github.com/cppla/eduquest/store/mongostore"
	"github.com/cppla/eduquest/store/sqlstore"
)

// OpenStore connects to the backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.AppConfig) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mongo", "":
		client, err := config.OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := mongostore.New(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return s, nil
	case "mysql", "sqlite":
		db, err := config.OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		s, err := sqlstore.New(db)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
