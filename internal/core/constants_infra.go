package core

import "time"

// HTTP client config constants
const (
	HTTPMaxIdleConns          = 100
	HTTPMaxIdleConnsPerHost   = 20
	HTTPMaxConnsPerHost       = 50
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPTLSHandshakeTimeout   = 10 * time.Second
	HTTPResponseHeaderTimeout = 15 * time.Second
	HTTPExpectContinueTimeout = 1 * time.Second
	HTTPRequestTimeout        = 30 * time.Second
)

// Cache config constants
const (
	CacheDefaultCapacity = 1000
	CacheCleanupInterval = 5 * time.Minute
	ModelsCacheTTL       = 5 * time.Minute
	ModelsCacheKey       = "catalog:models"
)

// Session constants
const (
	SessionTTL          = 24 * time.Hour
	SessionCookieName   = "sidebar_session"
	SessionRedisPrefix  = "openroutersidebar:session:"
	SessionStoreMemory  = "memory"
	SessionStoreRedis   = "redis"
	SessionStoreSQLite  = "sqlite"
	SessionCapacity     = 10000
	SessionSQLiteTable  = "sessions"
	SessionIDMaxLength  = 64
	SessionCookieMaxAge = int(SessionTTL / time.Second)
)

// Response body size limits
const (
	MaxResponseBodySize = 10 * 1024 * 1024
	MaxErrorBodyPreview = 512
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
