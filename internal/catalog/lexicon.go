package catalog

import (
	"fmt"
	"strings"
)

// ClickTarget maps spoken verbs to the canonical control they press.
type ClickTarget struct {
	Target  string   `toml:"target" json:"target"`
	Phrases []string `toml:"phrases" json:"phrases"`
}

// Lexicon holds the fixed phrase lists used by the resolver rules.
type Lexicon struct {
	Back    []string `toml:"back" json:"back"`
	Refresh []string `toml:"refresh" json:"refresh"`

	LoginVerbs      []string `toml:"login_verbs" json:"login_verbs"`
	LoginConnectors []string `toml:"login_connectors" json:"login_connectors"`

	AadhaarKeywords []string `toml:"aadhaar_keywords" json:"aadhaar_keywords"`
	// PhoneKeywords name the phone itself. A bare "number" would pull survey
	// and account numbers into the mobile field.
	PhoneKeywords []string `toml:"phone_keywords" json:"phone_keywords"`

	// SetVerbs introduce "set X to Y"; SetLinks separate X from Y.
	SetVerbs []string `toml:"set_verbs" json:"set_verbs"`
	SetLinks []string `toml:"set_links" json:"set_links"`
	// Copulas separate "X is Y"; FinalCopulas close the verb-final "X Y hai".
	Copulas      []string `toml:"copulas" json:"copulas"`
	FinalCopulas []string `toml:"final_copulas" json:"final_copulas"`

	Click []ClickTarget `toml:"click" json:"click"`

	ScrollUp   []string `toml:"scroll_up" json:"scroll_up"`
	ScrollDown []string `toml:"scroll_down" json:"scroll_down"`
	// Scroll is a bare scroll request, which scrolls down.
	Scroll []string `toml:"scroll" json:"scroll"`
}

func DefaultLexicon() Lexicon {
	return Lexicon{
		// Bare "back" also matches inside "feedback" and "cashback".
		Back:    []string{"go back", "back", "peeche", "pichhe", "piche", "पीछे", "वापस", "मागे", "maage"},
		Refresh: []string{"refresh", "reload", "रिफ्रेश", "रीलोड", "ताज़ा करो", "पुन्हा लोड"},

		LoginVerbs:      []string{"login", "log in", "sign in", "लॉगिन", "लॉग इन"},
		LoginConnectors: []string{"and", "aur", "और", "ani", "आणि", "&"},

		AadhaarKeywords: []string{"aadhaar", "aadhar", "adhaar", "adhar", "आधार"},
		PhoneKeywords:   []string{"mobile", "phone", "contact", "मोबाइल", "मोबाईल", "फोन", "फ़ोन"},

		SetVerbs:     []string{"set", "change", "update", "enter", "fill", "put", "type", "write"},
		SetLinks:     []string{"to", "as", "="},
		Copulas:      []string{"is", "=", "equals", "hai", "है", "aahe", "ahe", "आहे"},
		FinalCopulas: []string{"hai", "है", "aahe", "ahe", "आहे"},

		Click: []ClickTarget{
			{Target: "submit", Phrases: []string{"submit", "jama karo", "jama kare", "जमा करें", "जमा करो", "सबमिट", "सादर करा"}},
			{Target: "logout", Phrases: []string{"logout", "log out", "sign out", "लॉगआउट"}},
			{Target: "login", Phrases: []string{"login", "log in", "sign in", "लॉगिन"}},
			{Target: "save", Phrases: []string{"save", "सेव", "सहेजें", "जतन करा"}},
			{Target: "search", Phrases: []string{"search", "find", "khojo", "dhundo", "खोजें", "खोजो", "ढूंढो", "शोधा"}},
			{Target: "next", Phrases: []string{"next", "continue", "aage", "आगे", "पुढे"}},
			{Target: "previous", Phrases: []string{"previous", "पिछला", "मागील"}},
			{Target: "cancel", Phrases: []string{"cancel", "radd", "रद्द"}},
			{Target: "upload", Phrases: []string{"upload", "अपलोड"}},
			{Target: "verify", Phrases: []string{"verify", "check", "जांचें", "सत्यापित", "तपासा"}},
			{Target: "send", Phrases: []string{"send", "bhejo", "भेजें", "भेजो", "पाठवा"}},
			{Target: "confirm", Phrases: []string{"confirm", "पुष्टि", "पुष्टी"}},
			{Target: "download", Phrases: []string{"download", "डाउनलोड"}},
			{Target: "clear", Phrases: []string{"clear", "reset", "साफ करो", "मिटाओ"}},
			{Target: "close", Phrases: []string{"close", "band karo", "बंद करो", "बंद करा"}},
		},

		ScrollUp:   []string{"scroll up", "page up", "upar", "ऊपर", "वर जा", "वरती"},
		ScrollDown: []string{"scroll down", "page down", "neeche", "niche", "नीचे", "खाली"},
		Scroll:     []string{"scroll", "स्क्रॉल", "स्क्रोल"},
	}
}

// ClickTargetFor returns the click entry for a canonical target.
func (l Lexicon) ClickTargetFor(target string) (ClickTarget, bool) {
	for _, click := range l.Click {
		if click.Target == target {
			return click, true
		}
	}
	return ClickTarget{}, false
}

type namedList struct {
	name  string
	items *[]string
}

func (l *Lexicon) lists() []namedList {
	return []namedList{
		{"back", &l.Back},
		{"refresh", &l.Refresh},
		{"login_verbs", &l.LoginVerbs},
		{"login_connectors", &l.LoginConnectors},
		{"aadhaar_keywords", &l.AadhaarKeywords},
		{"phone_keywords", &l.PhoneKeywords},
		{"set_verbs", &l.SetVerbs},
		{"set_links", &l.SetLinks},
		{"copulas", &l.Copulas},
		{"final_copulas", &l.FinalCopulas},
		{"scroll_up", &l.ScrollUp},
		{"scroll_down", &l.ScrollDown},
		{"scroll", &l.Scroll},
	}
}

func (l *Lexicon) normalize() {
	for _, list := range l.lists() {
		*list.items = normalizePhrases(*list.items)
	}
	for i := range l.Click {
		l.Click[i].Target = strings.ToLower(strings.TrimSpace(l.Click[i].Target))
		l.Click[i].Phrases = normalizePhrases(l.Click[i].Phrases)
	}
}

func mergeLexicon(base, override Lexicon) Lexicon {
	out := base
	out.Click = nil
	overrideLists := override.lists()
	for i, list := range out.lists() {
		*list.items = mergeStringSlices(*list.items, *overrideLists[i].items)
	}

	clickIndex := map[string]int{}
	for _, click := range base.Click {
		clickIndex[click.Target] = len(out.Click)
		out.Click = append(out.Click, ClickTarget{Target: click.Target, Phrases: mergeStringSlices(nil, click.Phrases)})
	}
	for _, click := range override.Click {
		if click.Target == "" {
			continue
		}
		if idx, ok := clickIndex[click.Target]; ok {
			out.Click[idx].Phrases = mergeStringSlices(out.Click[idx].Phrases, click.Phrases)
			continue
		}
		clickIndex[click.Target] = len(out.Click)
		out.Click = append(out.Click, ClickTarget{Target: click.Target, Phrases: mergeStringSlices(nil, click.Phrases)})
	}
	return out
}

func (l Lexicon) validate() []error {
	var problems []error
	required := map[string]bool{"back": true, "refresh": true, "login_verbs": true, "login_connectors": true, "copulas": true, "scroll_up": true, "scroll_down": true}
	for _, list := range l.lists() {
		if required[list.name] && len(*list.items) == 0 {
			problems = append(problems, fmt.Errorf("lexicon list %q is empty", list.name))
		}
		for _, phrase := range *list.items {
			problems = append(problems, checkPhrase("lexicon "+list.name, phrase)...)
		}
	}
	seen := map[string]bool{}
	for _, click := range l.Click {
		if click.Target == "" {
			problems = append(problems, fmt.Errorf("lexicon click entry has an empty target"))
			continue
		}
		if seen[click.Target] {
			problems = append(problems, fmt.Errorf("lexicon click target %q is declared more than once", click.Target))
		}
		seen[click.Target] = true
		for _, phrase := range click.Phrases {
			problems = append(problems, checkPhrase("click "+click.Target, phrase)...)
		}
	}
	return problems
}
