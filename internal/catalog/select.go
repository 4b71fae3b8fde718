package catalog

import (
	"slices"

	"openroutersidebar/internal/core"
)

// SelectModel picks the initial selection for the model selector.
//
// previous wins when it is set and still offered by available; otherwise
// defaultModel is used. When available is non-empty, defaultModel must be a
// member of it or a *core.ConfigError is returned. With an empty catalog
// nothing can be validated, so previous (or defaultModel) is kept as-is.
func SelectModel(available []string, previous, defaultModel string) (string, error) {
	if len(available) == 0 {
		if previous != "" {
			return previous, nil
		}
		return defaultModel, nil
	}

	if previous != "" && slices.Contains(available, previous) {
		return previous, nil
	}
	if !slices.Contains(available, defaultModel) {
		return "", core.ErrDefaultModelUnavailable(defaultModel, len(available))
	}
	return defaultModel, nil
}
