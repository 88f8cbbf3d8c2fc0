package safety

import (
	"regexp"
	"strings"

	"github.com/ashwch/bol/internal/intent"
)

const redacted = "<redacted>"

type redactionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; numbers are masked before the generic secret rules so
// "password 1234 5678 9012" keeps a readable Aadhaar mask.
var piiRedactionRules = []redactionRule{
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		replacement: `<email>`,
	},
	{
		pattern:     regexp.MustCompile(`(^|\D)\d{4}[\s-]?\d{4}[\s-]?(\d{4})(\D|$)`),
		replacement: `${1}XXXX-XXXX-${2}${3}`,
	},
	{
		pattern:     regexp.MustCompile(`(^|[^\d+])(?:\+?91[\s-]?)?\d{5}[\s-]?\d{1}(\d{4})(\D|$)`),
		replacement: `${1}XXXXXX${2}${3}`,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(^|\s)(password|passcode|pass|पासवर्ड)(\s+(?:is|hai|है|aahe|आहे)\s+|\s*[=:]\s*|\s+)(\S+)`),
		replacement: `${1}${2}${3}` + redacted,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b([a-z0-9_]*(?:token|secret|api[_-]?key|access[_-]?key)[a-z0-9_]*)\s*[=:]\s*([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1=` + redacted,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(authorization\s*:\s*bearer)\s+([^\s"']+)`),
		replacement: `$1 ` + redacted,
	},
}

// RedactText scrubs Aadhaar numbers, phone numbers, emails and spoken
// passwords or tokens from free-form text.
func RedactText(input string) string {
	out := input
	for _, rule := range piiRedactionRules {
		out = rule.pattern.ReplaceAllString(out, rule.replacement)
	}
	return out
}

// IsSensitiveField reports whether values of the form field must never be stored verbatim.
func IsSensitiveField(field string) bool {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "password", "aadhaar", "mobile", "email":
		return true
	default:
		return false
	}
}

// RedactValue masks the value of a sensitive field, keeping just enough to
// tell entries apart (last four digits, email domain).
func RedactValue(field, value string) string {
	if value == "" {
		return value
	}
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "password":
		return redacted
	case "aadhaar", "mobile":
		digits := onlyDigits(value)
		if len(digits) <= 4 {
			return strings.Repeat("X", len(digits))
		}
		return strings.Repeat("X", len(digits)-4) + digits[len(digits)-4:]
	case "email":
		at := strings.LastIndex(value, "@")
		if at <= 0 {
			return redacted
		}
		return value[:1] + "***" + value[at:]
	default:
		return RedactText(value)
	}
}

// RedactResult returns a copy of result with sensitive fill values masked
// and chat queries scrubbed. The input is not modified.
func RedactResult(result intent.Result) intent.Result {
	if result.Action == nil {
		return result
	}
	action := redactAction(*result.Action)
	result.Action = &action
	return result
}

// RedactTranscript scrubs a transcript, including sensitive values the
// resolver extracted from it that carry no recognizable shape of their own
// (a password spoken after "and").
func RedactTranscript(transcript string, result intent.Result) string {
	out := transcript
	for _, value := range sensitiveValues(result.Action) {
		if value == "" {
			continue
		}
		word := regexp.MustCompile(`(^|\s)` + regexp.QuoteMeta(value) + `([\s.,!?।]|$)`)
		out = word.ReplaceAllString(out, "${1}"+redacted+"${2}")
	}
	return RedactText(out)
}

func redactAction(action intent.Action) intent.Action {
	switch action.Type {
	case intent.ActionFill:
		if IsSensitiveField(action.Field) {
			action.Value = RedactValue(action.Field, action.Value)
		}
	case intent.ActionChat:
		action.Query = RedactText(action.Query)
	case intent.ActionMulti:
		nested := make([]intent.Action, len(action.Actions))
		for i, child := range action.Actions {
			nested[i] = redactAction(child)
		}
		action.Actions = nested
	}
	return action
}

func sensitiveValues(action *intent.Action) []string {
	if action == nil {
		return nil
	}
	var values []string
	switch action.Type {
	case intent.ActionFill:
		if IsSensitiveField(action.Field) {
			values = append(values, action.Value)
		}
	case intent.ActionMulti:
		for i := range action.Actions {
			values = append(values, sensitiveValues(&action.Actions[i])...)
		}
	}
	return values
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
