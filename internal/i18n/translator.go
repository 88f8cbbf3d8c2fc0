package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

// Message IDs used for spoken feedback.
const (
	MsgBack       = "feedback_back"
	MsgReload     = "feedback_reload"
	MsgNavigate   = "feedback_navigate"
	MsgLogin      = "feedback_login"
	MsgFill       = "feedback_fill"
	MsgClick      = "feedback_click"
	MsgScrollUp   = "feedback_scroll_up"
	MsgScrollDown = "feedback_scroll_down"
	MsgChat       = "feedback_chat"
	MsgFallback   = "feedback_fallback"
)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator from the embedded active.*.toml files.
// An unparsable default locale falls back to English.
func NewTranslator(defaultLocale string) (*Translator, error) {
	tag, err := language.Parse(Base(defaultLocale))
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("could not list locale files: %w", err)
	}
	sort.Strings(files)
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("could not load %s: %w", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}, nil
}

// MustTranslator is NewTranslator for the embedded files, which are known good.
func MustTranslator(defaultLocale string) *Translator {
	t, err := NewTranslator(defaultLocale)
	if err != nil {
		panic(err)
	}
	return t
}

// T renders the message identified by key for the given locale.
// Missing keys fall back to the default locale, then to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	// go-i18n reports a fallback hit as an error but still returns the text.
	msg, _ := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if msg == "" {
		return key
	}
	return msg
}

// DefaultLocale is the locale used when a caller passes none.
func (t *Translator) DefaultLocale() string {
	return t.defaultLanguage.String()
}
