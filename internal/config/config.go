package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"
)

// ServerConfig server configuration
type ServerConfig struct {
	Port             string
	GinMode          string
	APIBase          string
	AuthBase         string
	PublicURL        string
	DefaultModel     string
	ModelsCacheTTL   time.Duration
	SessionTTL       time.Duration
	RateLimit        int
	CORSAllowOrigins []string

	HTTPClientSettings HTTPClientSettings
	Sessions           core.SessionStore
	Logger             core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		MaxConnsPerHost:     core.HTTPMaxConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// LoadServerConfigFromEnv loads server config from environment variables
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	port := util.GetEnvWithDefault("PORT", core.DefaultPort)

	cfg := ServerConfig{
		Port:               port,
		GinMode:            util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		APIBase:            strings.TrimRight(util.GetEnvWithDefault("OPENROUTER_API_BASE", core.DefaultOpenRouterAPIBase), "/"),
		AuthBase:           strings.TrimRight(util.GetEnvWithDefault("OPENROUTER_BASE", core.DefaultOpenRouterBase), "/"),
		PublicURL:          util.GetEnvWithDefault("PUBLIC_URL", "http://localhost:"+port),
		DefaultModel:       util.GetEnvWithDefault("DEFAULT_MODEL", core.DefaultModel),
		CORSAllowOrigins:   util.ParseEnvList(util.GetEnvWithDefault("CORS_ALLOW_ORIGIN", "*")),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	var err error
	if cfg.ModelsCacheTTL, err = util.GetEnvDuration("MODELS_CACHE_TTL", core.ModelsCacheTTL); err != nil {
		return cfg, fmt.Errorf("invalid MODELS_CACHE_TTL: %w", err)
	}
	if cfg.SessionTTL, err = util.GetEnvDuration("SESSION_TTL", core.SessionTTL); err != nil {
		return cfg, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.HTTPClientSettings.RequestTimeout, err = util.GetEnvDuration("HTTP_TIMEOUT", core.HTTPRequestTimeout); err != nil {
		return cfg, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	rateLimit, err := util.GetEnvInt("RATE_LIMIT", core.DefaultRateLimit)
	if err != nil || rateLimit <= 0 {
		logger.Warn("Invalid RATE_LIMIT value '%s', using default %d", util.GetEnvWithDefault("RATE_LIMIT", ""), core.DefaultRateLimit)
		rateLimit = core.DefaultRateLimit
	}
	cfg.RateLimit = rateLimit

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.Info("Using API base %s, auth base %s, default model %s", cfg.APIBase, cfg.AuthBase, cfg.DefaultModel)
	return cfg, nil
}

// Validate checks the fields every render relies on.
func (c ServerConfig) Validate() error {
	for field, value := range map[string]string{
		"OPENROUTER_API_BASE": c.APIBase,
		"OPENROUTER_BASE":     c.AuthBase,
		"PUBLIC_URL":          c.PublicURL,
	} {
		if err := validateBaseURL(value); err != nil {
			return core.ErrInvalidConfig(field, err.Error())
		}
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return core.ErrInvalidConfig("DEFAULT_MODEL", "must not be empty")
	}
	if c.ModelsCacheTTL < 0 {
		return core.ErrInvalidConfig("MODELS_CACHE_TTL", "must not be negative")
	}
	if c.SessionTTL <= 0 {
		return core.ErrInvalidConfig("SESSION_TTL", "must be positive")
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// ConnectURL builds the third-party authorization page URL that redirects back to PublicURL.
func (c ServerConfig) ConnectURL() string {
	q := url.Values{}
	q.Set(core.QueryParamCallbackURL, util.URLToHostname(c.PublicURL))
	return c.AuthBase + core.AuthPagePath + "?" + q.Encode()
}
