// Package catalog fetches the remote model directory and resolves the
// sidebar's model selection against it.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"

	"github.com/bytedance/sonic"
)

// Client reads {APIBase}/models.
type Client struct {
	apiBase    string
	httpClient *http.Client
	cache      core.Cache
	cacheTTL   time.Duration
	metrics    core.MetricsCollector
	logger     core.Logger
}

// ClientConfig configures a catalog Client. Cache and Metrics are optional;
// a zero CacheTTL disables caching.
type ClientConfig struct {
	APIBase    string
	HTTPClient *http.Client
	Cache      core.Cache
	CacheTTL   time.Duration
	Metrics    core.MetricsCollector
	Logger     core.Logger
}

// NewClient creates a catalog client.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		apiBase:    cfg.APIBase,
		httpClient: cfg.HTTPClient,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.metrics == nil {
		c.metrics = &core.NopMetrics{}
	}
	if c.logger == nil {
		c.logger = &core.NopLogger{}
	}
	return c
}

// ListModels returns the catalog's model ids in response order.
// On any failure it returns an empty, non-nil slice together with a *core.RequestError.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if ids, ok := c.cached(); ok {
		c.metrics.RecordCacheHit()
		return ids, nil
	}
	if c.cache != nil && c.cacheTTL > 0 {
		c.metrics.RecordCacheMiss()
	}

	start := time.Now()
	ids, err := c.fetch(ctx)
	c.metrics.RecordUpstreamRequest(core.OpListModels, time.Since(start), err)
	if err != nil {
		c.logger.Warn("Failed to list models: %v", err)
		return []string{}, err
	}

	c.logger.Debug("Fetched %d models from catalog", len(ids))
	if c.cache != nil && c.cacheTTL > 0 {
		c.cache.Set(core.ModelsCacheKey, append([]string(nil), ids...), c.cacheTTL)
	}
	return ids, nil
}

func (c *Client) cached() ([]string, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	v, ok := c.cache.Get(core.ModelsCacheKey)
	if !ok {
		return nil, false
	}
	ids, ok := v.([]string)
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	req, err := util.NewJSONRequest(ctx, http.MethodGet, util.JoinURL(c.apiBase, core.ModelsPath), nil, "")
	if err != nil {
		return nil, core.NewTransportError(core.OpListModels, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewTransportError(core.OpListModels, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !util.IsSuccessStatus(resp.StatusCode) {
		return nil, core.NewStatusError(core.OpListModels, resp.StatusCode, util.ReadErrorBody(resp.Body))
	}

	var list struct {
		Data *[]core.ModelInfo `json:"data"`
	}
	if err := sonic.ConfigDefault.NewDecoder(io.LimitReader(resp.Body, core.MaxResponseBodySize)).Decode(&list); err != nil {
		return nil, core.NewPayloadError(core.OpListModels, "invalid JSON in models response", err)
	}
	if list.Data == nil {
		return nil, core.NewPayloadError(core.OpListModels, `models response has no "data" field`, nil)
	}

	ids := make([]string, 0, len(*list.Data))
	for i, m := range *list.Data {
		if m.ID == "" {
			return nil, core.NewPayloadError(core.OpListModels, fmt.Sprintf("model entry %d has no id", i), nil)
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}
