package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/errors"
)

// Open returns the backend selected by cfg. The file backend falls back to
// [DefaultDir] when cfg.Dir is empty.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return NewNullCache(), nil
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate cache directory")
			}
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create cache directory %s", dir)
		}
		return c, nil
	case config.BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open redis cache")
		}
		return c, nil
	case config.BackendMongo:
		c, err := NewMongoCache(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open mongo cache")
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown cache backend %q", cfg.Backend)
}

// DefaultDir returns the cache directory using the XDG convention
// (~/.cache/geobuffer/).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, config.AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", config.AppName), nil
}
