package i18n

import (
	"strings"
	"testing"
)

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "en_US.UTF-8", want: "en-US"},
		{in: "hi-in", want: "hi-IN"},
		{in: "mr", want: "mr"},
		{in: "pt_BR@latin", want: "pt-BR"},
		{in: "C.UTF-8", want: ""},
		{in: "%%bad", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := NormalizeLocale(tc.in); got != tc.want {
			t.Fatalf("NormalizeLocale(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestResolveLocaleAutoUsesEnvironment(t *testing.T) {
	t.Setenv("BOL_LOCALE", "mr_IN.UTF-8")
	if got := ResolveLocale("auto"); got != "mr-IN" {
		t.Fatalf("expected mr-IN from BOL_LOCALE, got %q", got)
	}
	if got := ResolveLocale("hi"); got != "hi" {
		t.Fatalf("expected explicit locale to win, got %q", got)
	}
}

func TestDetectLocaleSkipsPOSIXLocale(t *testing.T) {
	t.Setenv("BOL_LOCALE", "")
	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "hi_IN.UTF-8")
	if got := DetectLocale(); got != "hi-IN" {
		t.Fatalf("expected hi-IN, got %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	for _, locale := range []string{"en", "en-IN", "hi-IN", "mr"} {
		if !IsSupported(locale) {
			t.Fatalf("expected %q to be supported", locale)
		}
	}
	if IsSupported("fr-FR") {
		t.Fatalf("did not expect fr-FR to be supported")
	}
}

func TestTranslatorRendersTemplates(t *testing.T) {
	tr, err := NewTranslator("en")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	got := tr.T("en", MsgNavigate, map[string]any{"Page": "Dashboard"})
	if got != "Opening Dashboard" {
		t.Fatalf("unexpected english navigate feedback %q", got)
	}
	hindi := tr.T("hi-IN", MsgNavigate, map[string]any{"Page": "Dashboard"})
	if !strings.Contains(hindi, "खोल रहे हैं") {
		t.Fatalf("expected hindi navigate feedback, got %q", hindi)
	}
	marathi := tr.T("mr", MsgBack, nil)
	if marathi != "मागे जात आहे" {
		t.Fatalf("unexpected marathi back feedback %q", marathi)
	}
}

func TestTranslatorFallsBackToDefaultThenKey(t *testing.T) {
	tr := MustTranslator("en")
	if got := tr.T("fr", MsgScrollUp, nil); got != "Scrolling up" {
		t.Fatalf("expected english fallback for unsupported locale, got %q", got)
	}
	if got := tr.T("en", "no_such_message", nil); got != "no_such_message" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := tr.T("en", "", nil); got != "" {
		t.Fatalf("expected empty key to render empty, got %q", got)
	}
}

func TestFallbackMessagesAreBilingual(t *testing.T) {
	tr := MustTranslator("en")
	for _, locale := range Supported {
		msg := tr.T(locale, MsgFallback, nil)
		if !containsDevanagari(msg) || !containsLatinWord(msg) {
			t.Fatalf("expected bilingual fallback for %s, got %q", locale, msg)
		}
	}
}

func containsDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

func containsLatinWord(s string) bool {
	return strings.Contains(strings.ToLower(s), "sorry")
}
