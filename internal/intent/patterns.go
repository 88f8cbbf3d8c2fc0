package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ashwch/bol/internal/catalog"
)

var (
	reAadhaar     = regexp.MustCompile(`(?:^|\D)(\d{4})[\s-]?(\d{4})[\s-]?(\d{4})(?:\D|$)`)
	rePhone       = regexp.MustCompile(`(?:^|\D)(\d{5})[\s-]?(\d{5})(?:\D|$)`)
	reDigitGroups = regexp.MustCompile(`^\d+(?:[\s-]+\d+)+$`)
	reSeparators  = regexp.MustCompile(`[\s-]+`)
)

const trailingPunctuation = ".,!?;:।॥\"'"

// patterns are the lexicon-driven regexes compiled once per Resolver.
// A nil pattern means its lexicon list was empty and the rule is skipped.
type patterns struct {
	login     *regexp.Regexp
	setField  *regexp.Regexp
	copula    *regexp.Regexp
	verbFinal *regexp.Regexp
}

func compilePatterns(lex catalog.Lexicon) patterns {
	var p patterns

	verbs := alternation(lex.LoginVerbs)
	connectors := alternation(lex.LoginConnectors)
	if verbs != "" && connectors != "" {
		p.login = regexp.MustCompile(
			`(?:^|\s)(?:` + verbs + `)(?:\s+(?:with|using|via|se|से|karo|करो|ne|ने))?` +
				`\s+(?:(?:email|e-mail|ईमेल|id|username)\s+)?(\S+)` +
				`\s+(?:` + connectors + `)` +
				`\s+(?:(?:password|पासवर्ड|pass)\s+)?(\S+)`,
		)
	}

	setVerbs := alternation(lex.SetVerbs)
	setLinks := alternation(lex.SetLinks)
	if setVerbs != "" && setLinks != "" {
		p.setField = regexp.MustCompile(`^(?:please\s+)?(?:` + setVerbs + `)\s+(.+?)\s+(?:` + setLinks + `)\s+(.+)$`)
	}
	if copulas := alternation(lex.Copulas); copulas != "" {
		p.copula = regexp.MustCompile(`^(.+?)\s+(?:` + copulas + `)\s+(.+)$`)
	}
	if finals := alternation(lex.FinalCopulas); finals != "" {
		p.verbFinal = regexp.MustCompile(`^(.+)\s+(?:` + finals + `)$`)
	}
	return p
}

// alternation quotes phrases into a regexp alternation, longest first so a
// phrase never loses to its own prefix.
func alternation(phrases []string) string {
	quoted := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(phrase))
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})
	return strings.Join(quoted, "|")
}

func containsAny(low string, patterns ...string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(low, pattern) {
			return true
		}
	}
	return false
}

// cleanValue trims spoken punctuation and joins digit groups ("98765 43210").
func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimRight(value, trailingPunctuation)
	value = strings.TrimSpace(value)
	if reDigitGroups.MatchString(value) {
		value = reSeparators.ReplaceAllString(value, "")
	}
	return value
}
