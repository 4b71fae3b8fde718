package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"openroutersidebar/internal/core"
)

func TestMetricsService_RecordUpstreamRequest(t *testing.T) {
	ms := NewMetricsService(&core.NopLogger{})

	ms.RecordUpstreamRequest(core.OpListModels, 100*time.Millisecond, nil)
	ms.RecordUpstreamRequest(core.OpListModels, 200*time.Millisecond, errors.New("boom"))
	ms.RecordUpstreamRequest(core.OpExchangeCode, 50*time.Millisecond, nil)
	ms.RecordUpstreamRequest("unknown_op", time.Second, nil)

	snap := ms.Snapshot()
	models := snap.Upstream[core.OpListModels]
	if models.Requests != 2 || models.Failures != 1 {
		t.Errorf("list_models = %+v", models)
	}
	if models.AvgResponseTimeMs != 150 {
		t.Errorf("avg = %v, want 150", models.AvgResponseTimeMs)
	}
	if exchange := snap.Upstream[core.OpExchangeCode]; exchange.Requests != 1 || exchange.Failures != 0 {
		t.Errorf("exchange_code = %+v", exchange)
	}
	if _, ok := snap.Upstream["unknown_op"]; ok {
		t.Error("unknown ops should not be reported")
	}
	if !strings.HasSuffix(snap.LastFailure, core.OpListModels) {
		t.Errorf("LastFailure = %q", snap.LastFailure)
	}
}

func TestMetricsService_CacheCounters(t *testing.T) {
	ms := NewMetricsService(nil)
	ms.RecordCacheHit()
	ms.RecordCacheHit()
	ms.RecordCacheMiss()

	snap := ms.Snapshot()
	if snap.CacheHits != 2 || snap.CacheMisses != 1 {
		t.Errorf("cache counters = %d/%d", snap.CacheHits, snap.CacheMisses)
	}
}

func TestMetricsService_EmptySnapshot(t *testing.T) {
	snap := NewMetricsService(nil).Snapshot()
	for op, s := range snap.Upstream {
		if s.Requests != 0 || s.AvgResponseTimeMs != 0 {
			t.Errorf("%s should start empty: %+v", op, s)
		}
	}
	if snap.LastFailure != "" {
		t.Errorf("LastFailure = %q", snap.LastFailure)
	}
}

func TestMetricsService_ConcurrentRecording(t *testing.T) {
	ms := NewMetricsService(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ms.RecordUpstreamRequest(core.OpExchangeCode, time.Millisecond, nil)
			ms.RecordCacheMiss()
		}()
	}
	wg.Wait()

	if got := ms.Snapshot().Upstream[core.OpExchangeCode].Requests; got != 50 {
		t.Errorf("requests = %d, want 50", got)
	}
}
