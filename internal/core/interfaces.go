package core

import (
	"context"
	"time"
)

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// Cache interface
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, duration time.Duration)
	Delete(key string)
	Stop()
}

// SessionStore persists per-visitor sidebar sessions.
// Load returns ErrSessionNotFound when no record exists for id.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// ModelCatalog lists the model identifiers offered by the remote catalog.
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]string, error)
}

// KeyExchanger trades a one-time authorization code for a durable API key.
type KeyExchanger interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// MetricsCollector interface
type MetricsCollector interface {
	RecordUpstreamRequest(op string, duration time.Duration, err error)
	RecordCacheHit()
	RecordCacheMiss()
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordUpstreamRequest(op string, duration time.Duration, err error) {}
func (*NopMetrics) RecordCacheHit()                                                    {}
func (*NopMetrics) RecordCacheMiss()                                                   {}
