package connect

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"openroutersidebar/internal/core"
)

func newKeysServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/keys" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		payload, _ := io.ReadAll(r.Body)
		if string(payload) != `{"code":"abc123"}` {
			t.Errorf("payload = %s", payload)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeCode_Success(t *testing.T) {
	srv := newKeysServer(t, http.StatusOK, `{"key":"sk-xyz"}`)
	ex := NewExchanger(srv.URL, nil, nil, nil)

	key, err := ex.ExchangeCode(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if key != "sk-xyz" {
		t.Errorf("key = %q", key)
	}
}

func TestExchangeCode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   core.ErrorKind
	}{
		{"bad request", http.StatusBadRequest, `{"error":"invalid code"}`, core.ErrorKindStatus},
		{"unauthorized", http.StatusUnauthorized, ``, core.ErrorKindStatus},
		{"malformed json", http.StatusOK, `not json`, core.ErrorKindPayload},
		{"missing key", http.StatusOK, `{"token":"sk"}`, core.ErrorKindPayload},
		{"blank key", http.StatusOK, `{"key":"  "}`, core.ErrorKindPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newKeysServer(t, tt.status, tt.body)
			ex := NewExchanger(srv.URL, nil, nil, nil)

			key, err := ex.ExchangeCode(context.Background(), "abc123")
			if key != "" {
				t.Errorf("key should be empty on failure, got %q", key)
			}
			var reqErr *core.RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %v", err)
			}
			if reqErr.Kind != tt.kind || reqErr.Op != core.OpExchangeCode {
				t.Errorf("error = %+v", reqErr)
			}
		})
	}
}

func TestExchangeCode_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewExchanger(base, nil, nil, nil).ExchangeCode(context.Background(), "abc123")
	var reqErr *core.RequestError
	if !errors.As(err, &reqErr) || reqErr.Kind != core.ErrorKindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}
