package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"openroutersidebar/internal/core"
)

// OpStats thread-safe counters for one upstream operation
type OpStats struct {
	Requests          atomic.Int64
	Failures          atomic.Int64
	TotalResponseTime atomic.Int64
}

// OpSnapshot is a point-in-time copy of OpStats.
type OpSnapshot struct {
	Requests          int64   `json:"requests"`
	Failures          int64   `json:"failures"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
}

// Snapshot is what /api/stats reports.
type Snapshot struct {
	Upstream    map[string]OpSnapshot `json:"upstream"`
	CacheHits   int64                 `json:"cacheHits"`
	CacheMisses int64                 `json:"cacheMisses"`
	LastFailure string                `json:"lastFailure,omitempty"`
	StartedAt   string                `json:"startedAt"`
}

// MetricsService collects upstream call metrics. It implements core.MetricsCollector.
type MetricsService struct {
	ops         map[string]*OpStats
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	startedAt   time.Time

	failureMu   sync.Mutex
	lastFailure string
	logger      core.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(logger core.Logger) *MetricsService {
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &MetricsService{
		ops: map[string]*OpStats{
			core.OpListModels:   {},
			core.OpExchangeCode: {},
		},
		startedAt: time.Now(),
		logger:    logger,
	}
}

// RecordUpstreamRequest records one call to the remote API.
func (ms *MetricsService) RecordUpstreamRequest(op string, duration time.Duration, err error) {
	stats, ok := ms.ops[op]
	if !ok {
		ms.logger.Debug("Ignoring metrics for unknown upstream op %q", op)
		return
	}
	stats.Requests.Add(1)
	stats.TotalResponseTime.Add(duration.Milliseconds())
	if err != nil {
		stats.Failures.Add(1)
		ms.failureMu.Lock()
		ms.lastFailure = time.Now().Format(core.TimeFormatDateTime) + " " + op
		ms.failureMu.Unlock()
	}
}

// RecordCacheHit records cache hit
func (ms *MetricsService) RecordCacheHit() {
	ms.cacheHits.Add(1)
}

// RecordCacheMiss records cache miss
func (ms *MetricsService) RecordCacheMiss() {
	ms.cacheMisses.Add(1)
}

// Snapshot returns the current counters.
func (ms *MetricsService) Snapshot() Snapshot {
	snap := Snapshot{
		Upstream:    make(map[string]OpSnapshot, len(ms.ops)),
		CacheHits:   ms.cacheHits.Load(),
		CacheMisses: ms.cacheMisses.Load(),
		StartedAt:   ms.startedAt.Format(core.TimeFormatDateTime),
	}
	for op, stats := range ms.ops {
		requests := stats.Requests.Load()
		var avg float64
		if requests > 0 {
			avg = math.Round(float64(stats.TotalResponseTime.Load())/float64(requests)*100) / 100
		}
		snap.Upstream[op] = OpSnapshot{
			Requests:          requests,
			Failures:          stats.Failures.Load(),
			AvgResponseTimeMs: avg,
		}
	}

	ms.failureMu.Lock()
	snap.LastFailure = ms.lastFailure
	ms.failureMu.Unlock()
	return snap
}
