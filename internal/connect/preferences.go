package connect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"openroutersidebar/internal/core"
)

// PreferenceInput carries raw form values; empty fields are left untouched.
type PreferenceInput struct {
	Temperature string
	TopP        string
	MaxLength   string
}

// ApplyPreferences validates in and writes accepted values into p.
// Each rejected field yields one notice and keeps its previous value.
func ApplyPreferences(p *core.Preferences, in PreferenceInput) []string {
	var notices []string

	if raw := strings.TrimSpace(in.Temperature); raw != "" {
		if v, err := parseBounded(raw, core.TemperatureMin, core.TemperatureMax); err != nil {
			notices = append(notices, "temperature "+err.Error())
		} else {
			p.Temperature = v
		}
	}

	if raw := strings.TrimSpace(in.TopP); raw != "" {
		if v, err := parseBounded(raw, core.TopPMin, core.TopPMax); err != nil {
			notices = append(notices, "top_p "+err.Error())
		} else {
			p.TopP = v
		}
	}

	if raw := strings.TrimSpace(in.MaxLength); raw != "" {
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			notices = append(notices, fmt.Sprintf("max_length must be an integer, got %q", raw))
		case v < core.MaxLengthMin || v > core.MaxLengthMax:
			notices = append(notices, fmt.Sprintf("max_length must be between %d and %d", core.MaxLengthMin, core.MaxLengthMax))
		case (v-core.MaxLengthMin)%core.MaxLengthStep != 0:
			notices = append(notices, fmt.Sprintf("max_length must be a multiple of %d", core.MaxLengthStep))
		default:
			p.MaxLength = v
		}
	}

	return notices
}

func parseBounded(raw string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("must be a number, got %q", raw)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("must be between %.2f and %.2f", lo, hi)
	}
	return v, nil
}
