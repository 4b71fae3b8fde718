package connect

import (
	"strings"
	"testing"

	"openroutersidebar/internal/core"
)

func TestApplyPreferences(t *testing.T) {
	tests := []struct {
		name        string
		in          PreferenceInput
		want        core.Preferences
		wantNotices []string
	}{
		{
			name: "empty input keeps defaults",
			want: core.DefaultPreferences(),
		},
		{
			name: "all valid",
			in:   PreferenceInput{Temperature: "0.7", TopP: "0.5", MaxLength: "1024"},
			want: core.Preferences{Temperature: 0.7, TopP: 0.5, MaxLength: 1024},
		},
		{
			name: "bounds are inclusive",
			in:   PreferenceInput{Temperature: "5", TopP: "0.01", MaxLength: "4096"},
			want: core.Preferences{Temperature: 5, TopP: 0.01, MaxLength: 4096},
		},
		{
			name:        "temperature out of range",
			in:          PreferenceInput{Temperature: "9", TopP: "0.3"},
			want:        core.Preferences{Temperature: core.TemperatureDefault, TopP: 0.3, MaxLength: core.MaxLengthDefault},
			wantNotices: []string{"temperature must be between"},
		},
		{
			name:        "top_p not a number",
			in:          PreferenceInput{TopP: "high"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"top_p must be a number"},
		},
		{
			name:        "temperature NaN rejected",
			in:          PreferenceInput{Temperature: "NaN"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"temperature must be a number"},
		},
		{
			name:        "top_p infinity rejected",
			in:          PreferenceInput{TopP: "Inf"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"top_p must be a number"},
		},
		{
			name:        "negative infinity rejected",
			in:          PreferenceInput{Temperature: "-Inf", TopP: "nan"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"temperature must be a number", "top_p must be a number"},
		},
		{
			name:        "max_length off step",
			in:          PreferenceInput{MaxLength: "100"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"multiple of 8"},
		},
		{
			name:        "max_length below range and bad temperature",
			in:          PreferenceInput{Temperature: "0", MaxLength: "8"},
			want:        core.DefaultPreferences(),
			wantNotices: []string{"temperature", "max_length must be between"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.DefaultPreferences()
			notices := ApplyPreferences(&p, tt.in)
			if p != tt.want {
				t.Errorf("preferences = %+v, want %+v", p, tt.want)
			}
			if len(notices) != len(tt.wantNotices) {
				t.Fatalf("notices = %v, want %d", notices, len(tt.wantNotices))
			}
			for i, frag := range tt.wantNotices {
				if !strings.Contains(notices[i], frag) {
					t.Errorf("notice %d = %q, want fragment %q", i, notices[i], frag)
				}
			}
		})
	}
}
