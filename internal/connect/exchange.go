package connect

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"

	"github.com/bytedance/sonic"
)

// Exchanger posts authorization codes to {APIBase}/auth/keys.
type Exchanger struct {
	apiBase    string
	httpClient *http.Client
	metrics    core.MetricsCollector
	logger     core.Logger
}

// NewExchanger creates a key exchanger. metrics and logger may be nil.
func NewExchanger(apiBase string, httpClient *http.Client, metrics core.MetricsCollector, logger core.Logger) *Exchanger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if metrics == nil {
		metrics = &core.NopMetrics{}
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Exchanger{apiBase: apiBase, httpClient: httpClient, metrics: metrics, logger: logger}
}

// ExchangeCode trades a one-time code for an API key.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (string, error) {
	start := time.Now()
	key, err := e.exchange(ctx, code)
	e.metrics.RecordUpstreamRequest(core.OpExchangeCode, time.Since(start), err)
	if err != nil {
		e.logger.Warn("Authorization code exchange failed: %v", err)
		return "", err
	}
	e.logger.Info("Authorization code exchanged for key %s", util.MaskSecret(key))
	return key, nil
}

func (e *Exchanger) exchange(ctx context.Context, code string) (string, error) {
	req, err := util.NewJSONRequest(ctx, http.MethodPost, util.JoinURL(e.apiBase, core.AuthKeysPath), core.KeyExchangeRequest{Code: code}, "")
	if err != nil {
		return "", core.NewTransportError(core.OpExchangeCode, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", core.NewTransportError(core.OpExchangeCode, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !util.IsSuccessStatus(resp.StatusCode) {
		return "", core.NewStatusError(core.OpExchangeCode, resp.StatusCode, util.ReadErrorBody(resp.Body))
	}

	var body core.KeyExchangeResponse
	if err := sonic.ConfigDefault.NewDecoder(io.LimitReader(resp.Body, core.MaxResponseBodySize)).Decode(&body); err != nil {
		return "", core.NewPayloadError(core.OpExchangeCode, "invalid JSON in key response", err)
	}
	if strings.TrimSpace(body.Key) == "" {
		return "", core.NewPayloadError(core.OpExchangeCode, `key response has no "key" field`, nil)
	}
	return body.Key, nil
}
