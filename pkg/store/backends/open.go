// Package backends opens the configured store.Store implementation.
package backends

import (
	"context"

	"github.com/matzehuels/journey/pkg/config"
	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/store"
	"github.com/matzehuels/journey/pkg/store/file"
	"github.com/matzehuels/journey/pkg/store/memory"
	"github.com/matzehuels/journey/pkg/store/mongo"
	"github.com/matzehuels/journey/pkg/store/postgres"
	"github.com/matzehuels/journey/pkg/store/redis"
)

// Open connects the backend named by cfg.Backend and wraps it with store
// hooks. Remote backends are pinged before Open returns.
func Open(ctx context.Context, cfg config.Store) (store.Store, error) {
	s, err := open(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open %s store", cfg.Backend)
	}
	return store.Instrument(s, cfg.Backend), nil
}

func open(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendFile:
		return file.New(cfg.Dir)
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case config.BackendMongo:
		return mongo.Connect(ctx, cfg.DSN, cfg.Mongo.Database, cfg.Mongo.Collection)
	case config.BackendPostgres:
		return postgres.Connect(ctx, cfg.DSN, cfg.Postgres.Table)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
}
