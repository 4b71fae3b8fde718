package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"openroutersidebar/internal/core"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// GenerateSessionID returns a random UUIDv4 session identifier.
func GenerateSessionID() string {
	return uuid.NewString()
}

// IsValidSessionID reports whether id looks like a session id we issued.
func IsValidSessionID(id string) bool {
	if id == "" || len(id) > core.SessionIDMaxLength {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// NewJSONRequest creates an upstream request with a JSON body and standard headers.
func NewJSONRequest(ctx context.Context, method, rawURL string, payload any, bearer string) (*http.Request, error) {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := MarshalJSON(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(core.HeaderAccept, core.ContentTypeJSON)
	if payload != nil {
		req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	}
	if bearer != "" {
		req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+bearer)
	}

	return req, nil
}

// ReadErrorBody reads a short preview of an error response body.
func ReadErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, core.MaxErrorBodyPreview))
	return strings.TrimSpace(string(body))
}

// IsSuccessStatus reports whether code is 2xx.
func IsSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// JoinURL appends path to base without doubling slashes.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// URLToHostname reduces a URL to scheme://host, dropping path and query.
func URLToHostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(rawURL, "/")
	}
	return u.Scheme + "://" + u.Host
}

// TruncateString truncates string and adds replacement text in the middle.
// Lengths count runes.
func TruncateString(s string, prefixLen, suffixLen int, replacement string) string {
	r := []rune(s)
	if len(r) > prefixLen+suffixLen {
		return string(r[:prefixLen]) + replacement + string(r[len(r)-suffixLen:])
	}
	return s
}

// MaskSecret hides a credential for logging, keeping only its first characters.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "****"
	}
	return TruncateString(s, 4, 0, "****")
}

// ParseEnvList parses comma-separated env var to trimmed slice
func ParseEnvList(envVar string) []string {
	if envVar == "" {
		return nil
	}
	parts := strings.Split(envVar, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvWithDefault gets env var with default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses an integer env var, returning defaultValue when unset.
func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// GetEnvDuration parses a duration env var ("5m", "30s"), returning defaultValue when unset.
func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
