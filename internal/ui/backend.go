package ui

import "strings"

const (
	BackendAuto      = "auto"
	BackendBubbleTea = "bubbletea"
	BackendHuh       = "huh"
	BackendTView     = "tview"
	BackendPlain     = "plain"
)

// fallbackChains lists, per configured backend, the order in which
// interactive backends are tried when the preferred one cannot start.
var fallbackChains = map[string][]string{
	BackendAuto:      {BackendBubbleTea, BackendHuh, BackendTView},
	BackendBubbleTea: {BackendBubbleTea, BackendHuh, BackendTView},
	BackendHuh:       {BackendHuh, BackendBubbleTea, BackendTView},
	BackendTView:     {BackendTView, BackendBubbleTea, BackendHuh},
	BackendPlain:     {BackendPlain},
}

func NormalizeBackend(backend string) string {
	normalized := strings.ToLower(strings.TrimSpace(backend))
	if _, ok := fallbackChains[normalized]; ok {
		return normalized
	}
	return BackendAuto
}

func IsInteractiveBackend(backend string) bool {
	return NormalizeBackend(backend) != BackendPlain
}

func backendCandidates(backend string) []string {
	chain := fallbackChains[NormalizeBackend(backend)]
	return append([]string(nil), chain...)
}
