package intent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ashwch/bol/internal/catalog"
	"github.com/ashwch/bol/internal/i18n"
)

const (
	DefaultChatPath      = "/schemes"
	DefaultChatMinLength = 5
)

// Messages renders spoken feedback. *i18n.Translator satisfies it.
type Messages interface {
	T(locale, key string, data map[string]any) string
}

type Options struct {
	// ChatPath is the page whose free-form speech is forwarded to the assistant.
	ChatPath string
	// ChatMinLength is the rune count a transcript must exceed to be forwarded.
	// Zero selects the default; a negative value forwards everything.
	ChatMinLength int
	Locale        string
	Messages      Messages
}

// Resolver maps transcripts to navigation targets or page actions.
// It holds only immutable tables and compiled patterns, so one Resolver
// can serve concurrent callers.
type Resolver struct {
	catalog  catalog.Catalog
	opts     Options
	patterns patterns
}

func New(cat catalog.Catalog, opts Options) *Resolver {
	opts.ChatPath = strings.TrimSpace(opts.ChatPath)
	if opts.ChatPath == "" {
		opts.ChatPath = DefaultChatPath
	}
	switch {
	case opts.ChatMinLength == 0:
		opts.ChatMinLength = DefaultChatMinLength
	case opts.ChatMinLength < 0:
		opts.ChatMinLength = 0
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.Messages == nil {
		opts.Messages = i18n.MustTranslator("en")
	}
	return &Resolver{
		catalog:  cat,
		opts:     opts,
		patterns: compilePatterns(cat.Lexicon),
	}
}

// WithLocale returns a Resolver that speaks feedback in locale and shares
// everything else with r.
func (r *Resolver) WithLocale(locale string) *Resolver {
	locale = i18n.NormalizeLocale(locale)
	if locale == "" || locale == r.opts.Locale {
		return r
	}
	clone := *r
	clone.opts.Locale = locale
	return &clone
}

func (r *Resolver) Catalog() catalog.Catalog { return r.catalog }
func (r *Resolver) Locale() string           { return r.opts.Locale }
func (r *Resolver) ChatPath() string         { return r.opts.ChatPath }

// Resolve classifies one transcript spoken on currentPath. Rules run in a
// fixed order and the first match wins; it never fails and never does I/O.
func (r *Resolver) Resolve(transcript, currentPath string) Result {
	u := newUtterance(transcript)
	if u.low == "" {
		return r.fallback()
	}

	if result, ok := r.systemCommand(u); ok {
		return result
	}
	if result, ok := r.navigation(u); ok {
		return result
	}
	if result, ok := r.compoundLogin(u); ok {
		return result
	}
	if result, ok := r.identityNumber(u); ok {
		return result
	}
	if result, ok := r.fieldAssignment(u); ok {
		return result
	}
	if result, ok := r.click(u); ok {
		return result
	}
	if result, ok := r.scroll(u); ok {
		return result
	}
	if result, ok := r.chat(u, currentPath); ok {
		return result
	}
	return r.fallback()
}

func (r *Resolver) systemCommand(u utterance) (Result, bool) {
	lex := r.catalog.Lexicon
	switch {
	case containsAny(u.low, lex.Back...):
		return Result{TargetPath: BackTarget(), Feedback: r.say(i18n.MsgBack, nil)}, true
	case containsAny(u.low, lex.Refresh...):
		return Result{TargetPath: ReloadTarget(), Feedback: r.say(i18n.MsgReload, nil)}, true
	}
	return Result{}, false
}

func (r *Resolver) navigation(u utterance) (Result, bool) {
	for _, route := range r.catalog.Routes {
		if !containsAny(u.low, route.Keywords...) {
			continue
		}
		page := route.Description
		if page == "" {
			page = route.Path
		}
		return Result{
			TargetPath: PathTarget(route.Path),
			Feedback:   r.say(i18n.MsgNavigate, map[string]any{"Page": page}),
		}, true
	}
	return Result{}, false
}

func (r *Resolver) compoundLogin(u utterance) (Result, bool) {
	if r.patterns.login == nil {
		return Result{}, false
	}
	m := r.patterns.login.FindStringSubmatchIndex(u.low)
	if m == nil {
		return Result{}, false
	}
	email := cleanValue(u.slice(m[2], m[3]))
	password := cleanValue(u.slice(m[4], m[5]))
	if email == "" || password == "" {
		return Result{}, false
	}
	action := Multi(
		Fill("email", email),
		Fill("password", password),
		Click("submit"),
	)
	return Result{Action: &action, Feedback: r.say(i18n.MsgLogin, nil)}, true
}

// identityNumber handles the digit patterns that are safe to extract even
// without a copula: Aadhaar (4-4-4) and mobile (5-5) numbers.
func (r *Resolver) identityNumber(u utterance) (Result, bool) {
	lex := r.catalog.Lexicon
	if containsAny(u.low, lex.AadhaarKeywords...) {
		if m := reAadhaar.FindStringSubmatch(u.low); m != nil {
			return r.fill("aadhaar", m[1]+m[2]+m[3]), true
		}
	}
	if containsAny(u.low, lex.PhoneKeywords...) {
		if m := rePhone.FindStringSubmatch(u.low); m != nil {
			return r.fill("mobile", m[1]+m[2]), true
		}
	}
	return Result{}, false
}

func (r *Resolver) fieldAssignment(u utterance) (Result, bool) {
	for _, pattern := range []*regexp.Regexp{r.patterns.setField, r.patterns.copula} {
		if pattern == nil {
			continue
		}
		m := pattern.FindStringSubmatchIndex(u.low)
		if m == nil {
			continue
		}
		field, ok := r.lookupField(u.low[m[2]:m[3]])
		if !ok {
			continue
		}
		if value := cleanValue(u.slice(m[4], m[5])); value != "" {
			return r.fill(field.Key, value), true
		}
	}

	if r.patterns.verbFinal == nil {
		return Result{}, false
	}
	m := r.patterns.verbFinal.FindStringSubmatchIndex(u.low)
	if m == nil {
		return Result{}, false
	}
	body := u.low[m[2]:m[3]]
	for _, field := range r.catalog.Fields {
		for _, synonym := range field.Synonyms {
			idx := strings.Index(body, synonym)
			if synonym == "" || idx < 0 {
				continue
			}
			value := cleanValue(u.slice(m[2]+idx+len(synonym), m[3]))
			if value == "" {
				return Result{}, false
			}
			return r.fill(field.Key, value), true
		}
	}
	return Result{}, false
}

func (r *Resolver) lookupField(text string) (catalog.Field, bool) {
	for _, field := range r.catalog.Fields {
		if containsAny(text, field.Synonyms...) {
			return field, true
		}
	}
	return catalog.Field{}, false
}

func (r *Resolver) fill(key, value string) Result {
	label := key
	if field, ok := r.catalog.FieldByKey(key); ok && field.Label != "" {
		label = field.Label
	}
	action := Fill(key, value)
	return Result{Action: &action, Feedback: r.say(i18n.MsgFill, map[string]any{"Field": label})}
}

func (r *Resolver) click(u utterance) (Result, bool) {
	for _, entry := range r.catalog.Lexicon.Click {
		if !containsAny(u.low, entry.Phrases...) {
			continue
		}
		action := Click(entry.Target)
		return Result{Action: &action, Feedback: r.say(i18n.MsgClick, map[string]any{"Target": entry.Target})}, true
	}
	return Result{}, false
}

func (r *Resolver) scroll(u utterance) (Result, bool) {
	lex := r.catalog.Lexicon
	var direction Direction
	switch {
	case containsAny(u.low, lex.ScrollUp...):
		direction = DirectionUp
	case containsAny(u.low, lex.ScrollDown...), containsAny(u.low, lex.Scroll...):
		direction = DirectionDown
	default:
		return Result{}, false
	}
	key := i18n.MsgScrollDown
	if direction == DirectionUp {
		key = i18n.MsgScrollUp
	}
	action := Scroll(direction)
	return Result{Action: &action, Feedback: r.say(key, nil)}, true
}

func (r *Resolver) chat(u utterance, currentPath string) (Result, bool) {
	if currentPath != r.opts.ChatPath {
		return Result{}, false
	}
	if utf8.RuneCountInString(u.low) <= r.opts.ChatMinLength {
		return Result{}, false
	}
	action := Chat(u.original)
	return Result{Action: &action, Feedback: r.say(i18n.MsgChat, nil)}, true
}

func (r *Resolver) fallback() Result {
	return Result{Feedback: r.say(i18n.MsgFallback, nil)}
}

func (r *Resolver) say(key string, data map[string]any) string {
	return r.opts.Messages.T(r.opts.Locale, key, data)
}

// utterance is a transcript prepared for matching. low drives every match;
// values are cut from raw at the same offsets so they keep their spoken case.
type utterance struct {
	original string
	raw      string
	low      string
	aligned  bool
}

func newUtterance(transcript string) utterance {
	original := strings.TrimSpace(transcript)
	raw := strings.Join(strings.Fields(original), " ")
	low := strings.ToLower(raw)
	return utterance{
		original: original,
		raw:      raw,
		low:      low,
		aligned:  offsetsAligned(raw, low),
	}
}

func (u utterance) slice(start, end int) string {
	if start < 0 || end < start {
		return ""
	}
	if u.aligned {
		return u.raw[start:end]
	}
	return u.low[start:end]
}

func offsetsAligned(raw, low string) bool {
	if len(raw) != len(low) || !utf8.ValidString(raw) {
		return false
	}
	for _, r := range raw {
		if utf8.RuneLen(unicode.ToLower(r)) != utf8.RuneLen(r) {
			return false
		}
	}
	return true
}
