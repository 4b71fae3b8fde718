package catalog

import (
	"errors"
	"testing"

	"openroutersidebar/internal/core"
)

func TestSelectModel(t *testing.T) {
	available := []string{"m1", "m2", "m3"}

	tests := []struct {
		name       string
		available  []string
		previous   string
		defaultMdl string
		want       string
	}{
		{"no previous selection uses default", available, "", "m2", "m2"},
		{"available previous wins over default", available, "m3", "m1", "m3"},
		{"previous equal to default", available, "m1", "m1", "m1"},
		{"stale previous falls back to default", available, "gone", "m2", "m2"},
		{"empty catalog keeps previous", nil, "m9", "m1", "m9"},
		{"empty catalog without previous uses default", []string{}, "", "m1", "m1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectModel(tt.available, tt.previous, tt.defaultMdl)
			if err != nil {
				t.Fatalf("SelectModel error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectModel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectModel_PropertiesOverCatalogs(t *testing.T) {
	catalogs := [][]string{
		{"a"},
		{"a", "b"},
		{"openai/gpt-4", "anthropic/claude-2", "meta-llama/llama-2-70b-chat"},
	}
	for _, available := range catalogs {
		for _, def := range available {
			if got, _ := SelectModel(available, "", def); got != def {
				t.Errorf("SelectModel(%v, \"\", %q) = %q", available, def, got)
			}
			if got, _ := SelectModel(available, "not-offered", def); got != def {
				t.Errorf("stale previous: SelectModel(%v, not-offered, %q) = %q", available, def, got)
			}
			for _, prev := range available {
				if got, _ := SelectModel(available, prev, def); got != prev {
					t.Errorf("SelectModel(%v, %q, %q) = %q", available, prev, def, got)
				}
			}
		}
	}
}

func TestSelectModel_DefaultNotAvailable(t *testing.T) {
	_, err := SelectModel([]string{"m1", "m2"}, "", "missing")
	var cfgErr *core.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Code != core.ErrCodeDefaultModelUnavailable {
		t.Errorf("code = %s", cfgErr.Code)
	}

	// An available previous selection never consults the default.
	got, err := SelectModel([]string{"m1", "m2"}, "m2", "missing")
	if err != nil || got != "m2" {
		t.Errorf("SelectModel = %q, %v", got, err)
	}
}
