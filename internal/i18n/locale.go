package i18n

import (
	"os"
	"strings"
)

// Supported lists the locales that ship feedback messages.
var Supported = []string{"en", "hi", "mr"}

func DetectLocale() string {
	candidates := []string{
		os.Getenv("BOL_LOCALE"),
		os.Getenv("LC_ALL"),
		os.Getenv("LC_MESSAGES"),
		os.Getenv("LANG"),
	}
	for _, candidate := range candidates {
		if normalized := NormalizeLocale(candidate); normalized != "" {
			return normalized
		}
	}
	return "en"
}

// ResolveLocale turns a configured value ("auto", "", "hi_IN") into a concrete locale.
func ResolveLocale(configured string) string {
	trimmed := strings.TrimSpace(configured)
	if trimmed == "" || strings.EqualFold(trimmed, "auto") {
		return DetectLocale()
	}
	if normalized := NormalizeLocale(trimmed); normalized != "" {
		return normalized
	}
	return "en"
}

func NormalizeLocale(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.Split(trimmed, ".")[0]
	trimmed = strings.Split(trimmed, "@")[0]
	trimmed = strings.ReplaceAll(trimmed, "_", "-")

	parts := strings.Split(trimmed, "-")
	lang := strings.ToLower(parts[0])
	if !isValidLocaleToken(lang, true) {
		return ""
	}
	if len(parts) == 1 || parts[1] == "" {
		return lang
	}
	region := strings.ToUpper(parts[1])
	if !isValidLocaleToken(strings.ToLower(region), false) {
		return ""
	}
	return lang + "-" + region
}

// Base strips the region: "hi-IN" -> "hi".
func Base(locale string) string {
	normalized := NormalizeLocale(locale)
	if idx := strings.Index(normalized, "-"); idx > 0 {
		return normalized[:idx]
	}
	return normalized
}

// IsSupported reports whether feedback messages exist for the locale's language.
func IsSupported(locale string) bool {
	base := Base(locale)
	for _, candidate := range Supported {
		if candidate == base {
			return true
		}
	}
	return false
}

func isValidLocaleToken(token string, lettersOnly bool) bool {
	if len(token) < 2 || len(token) > 8 {
		return false
	}
	for _, r := range token {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if !lettersOnly && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}
