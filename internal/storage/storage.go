package storage

import (
	"os"
	"time"

	"openroutersidebar/internal/core"
)

// InitStorage picks the session backend from the environment:
// REDIS_URL, then SESSION_DB_PATH, then in-memory. A backend that fails to
// initialize falls back to memory so the sidebar still renders.
func InitStorage(ttl time.Duration, logger core.Logger) (core.SessionStore, error) {
	if ttl <= 0 {
		ttl = core.SessionTTL
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := NewRedisStore(RedisStoreConfig{
			URL:    redisURL,
			Prefix: core.SessionRedisPrefix,
			TTL:    ttl,
		})
		if err != nil {
			logger.Warn("Failed to initialize Redis session store: %v, falling back to memory", err)
			return NewMemoryStore(ttl), nil
		}
		logger.Info("Using Redis session store")
		return redisStore, nil
	}

	if dbPath := os.Getenv("SESSION_DB_PATH"); dbPath != "" {
		sqliteStore, err := NewSQLiteStore(dbPath, ttl)
		if err != nil {
			logger.Warn("Failed to initialize SQLite session store at %s: %v, falling back to memory", dbPath, err)
			return NewMemoryStore(ttl), nil
		}
		logger.Info("Using SQLite session store at %s", dbPath)
		return sqliteStore, nil
	}

	logger.Info("Using in-memory session store")
	return NewMemoryStore(ttl), nil
}

// Kind names the backend behind store, for logs and /health.
func Kind(store core.SessionStore) string {
	switch store.(type) {
	case *RedisStore:
		return core.SessionStoreRedis
	case *SQLiteStore:
		return core.SessionStoreSQLite
	default:
		return core.SessionStoreMemory
	}
}
