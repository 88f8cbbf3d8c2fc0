package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed data/routes.toml data/fields.toml
var dataFS embed.FS

// Route maps a page path to the phrases that navigate to it.
type Route struct {
	Path        string   `toml:"path" json:"path"`
	Description string   `toml:"description" json:"description"`
	Keywords    []string `toml:"keywords" json:"keywords"`
}

// Field maps a canonical form field key to its spoken synonyms.
type Field struct {
	Key      string   `toml:"key" json:"key"`
	Label    string   `toml:"label" json:"label"`
	Synonyms []string `toml:"synonyms" json:"synonyms"`
}

// Catalog is the complete, ordered vocabulary the resolver matches against.
// Order of Routes, Fields and every phrase list is the tie-break.
type Catalog struct {
	Routes  []Route `toml:"route" json:"routes"`
	Fields  []Field `toml:"field" json:"fields"`
	Lexicon Lexicon `toml:"lexicon" json:"lexicon"`
}

type Options struct {
	// OverridePath is an optional community catalog.toml. A missing file is not an error.
	OverridePath string
}

// Default returns the embedded catalog without overrides.
func Default() (Catalog, error) {
	var routes struct {
		Routes []Route `toml:"route"`
	}
	if err := decodeEmbedded("data/routes.toml", &routes); err != nil {
		return Catalog{}, err
	}
	var fields struct {
		Fields []Field `toml:"field"`
	}
	if err := decodeEmbedded("data/fields.toml", &fields); err != nil {
		return Catalog{}, err
	}

	cat := Catalog{
		Routes:  routes.Routes,
		Fields:  fields.Fields,
		Lexicon: DefaultLexicon(),
	}
	cat.normalize()
	return cat, nil
}

// MustDefault is Default for callers that treat a broken embedded catalog as a build defect.
func MustDefault() Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}

// Load returns the embedded catalog merged with the override file, if any.
func Load(opts Options) (Catalog, error) {
	cat, err := Default()
	if err != nil {
		return Catalog{}, err
	}

	path := strings.TrimSpace(opts.OverridePath)
	if path == "" {
		return cat, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cat, nil
		}
		return Catalog{}, fmt.Errorf("could not read catalog overrides: %w", err)
	}

	var override Catalog
	if err := toml.Unmarshal(raw, &override); err != nil {
		return Catalog{}, fmt.Errorf("could not parse catalog overrides %s: %w", path, err)
	}
	override.normalize()
	return Merge(cat, override), nil
}

// Merge layers override onto base. Existing entries keep their position and
// gain new phrases at the end; unknown routes and fields are appended.
func Merge(base, override Catalog) Catalog {
	out := Catalog{
		Routes:  make([]Route, 0, len(base.Routes)+len(override.Routes)),
		Fields:  make([]Field, 0, len(base.Fields)+len(override.Fields)),
		Lexicon: mergeLexicon(base.Lexicon, override.Lexicon),
	}

	routeIndex := map[string]int{}
	for _, route := range base.Routes {
		routeIndex[route.Path] = len(out.Routes)
		route.Keywords = mergeStringSlices(nil, route.Keywords)
		out.Routes = append(out.Routes, route)
	}
	for _, route := range override.Routes {
		if route.Path == "" {
			continue
		}
		if idx, ok := routeIndex[route.Path]; ok {
			existing := out.Routes[idx]
			existing.Keywords = mergeStringSlices(existing.Keywords, route.Keywords)
			if existing.Description == "" {
				existing.Description = route.Description
			}
			out.Routes[idx] = existing
			continue
		}
		routeIndex[route.Path] = len(out.Routes)
		route.Keywords = mergeStringSlices(nil, route.Keywords)
		out.Routes = append(out.Routes, route)
	}

	fieldIndex := map[string]int{}
	for _, field := range base.Fields {
		fieldIndex[field.Key] = len(out.Fields)
		field.Synonyms = mergeStringSlices(nil, field.Synonyms)
		out.Fields = append(out.Fields, field)
	}
	for _, field := range override.Fields {
		if field.Key == "" {
			continue
		}
		if idx, ok := fieldIndex[field.Key]; ok {
			existing := out.Fields[idx]
			existing.Synonyms = mergeStringSlices(existing.Synonyms, field.Synonyms)
			if existing.Label == "" {
				existing.Label = field.Label
			}
			out.Fields[idx] = existing
			continue
		}
		fieldIndex[field.Key] = len(out.Fields)
		field.Synonyms = mergeStringSlices(nil, field.Synonyms)
		out.Fields = append(out.Fields, field)
	}

	return out
}

// RouteByPath finds the route registered for path.
func (c Catalog) RouteByPath(path string) (Route, bool) {
	for _, route := range c.Routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

// FieldByKey finds the field registered for key.
func (c Catalog) FieldByKey(key string) (Field, bool) {
	for _, field := range c.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Validate reports every structural problem in the catalog. A nil result means clean.
func (c Catalog) Validate() []error {
	var problems []error

	seenPaths := map[string]bool{}
	keywordOwner := map[string]string{}
	for i, route := range c.Routes {
		switch {
		case route.Path == "":
			problems = append(problems, fmt.Errorf("route #%d has an empty path", i+1))
		case !strings.HasPrefix(route.Path, "/"):
			problems = append(problems, fmt.Errorf("route %q must start with /", route.Path))
		case seenPaths[route.Path]:
			problems = append(problems, fmt.Errorf("route %q is declared more than once", route.Path))
		}
		seenPaths[route.Path] = true

		if len(route.Keywords) == 0 {
			problems = append(problems, fmt.Errorf("route %q has no keywords", route.Path))
		}
		for _, keyword := range route.Keywords {
			problems = append(problems, checkPhrase("route "+route.Path, keyword)...)
			if owner, ok := keywordOwner[keyword]; ok && owner != route.Path {
				problems = append(problems, fmt.Errorf("keyword %q is shared by routes %q and %q", keyword, owner, route.Path))
				continue
			}
			keywordOwner[keyword] = route.Path
		}
	}

	seenKeys := map[string]bool{}
	for i, field := range c.Fields {
		switch {
		case field.Key == "":
			problems = append(problems, fmt.Errorf("field #%d has an empty key", i+1))
		case seenKeys[field.Key]:
			problems = append(problems, fmt.Errorf("field %q is declared more than once", field.Key))
		}
		seenKeys[field.Key] = true

		if len(field.Synonyms) == 0 {
			problems = append(problems, fmt.Errorf("field %q has no synonyms", field.Key))
		}
		for _, synonym := range field.Synonyms {
			problems = append(problems, checkPhrase("field "+field.Key, synonym)...)
		}
	}

	problems = append(problems, c.Lexicon.validate()...)
	return problems
}

func checkPhrase(owner, phrase string) []error {
	if strings.TrimSpace(phrase) == "" {
		return []error{fmt.Errorf("%s has an empty phrase", owner)}
	}
	if phrase != strings.ToLower(phrase) {
		return []error{fmt.Errorf("%s phrase %q must be lower-case", owner, phrase)}
	}
	if phrase != strings.TrimSpace(phrase) {
		return []error{fmt.Errorf("%s phrase %q has surrounding whitespace", owner, phrase)}
	}
	return nil
}

func (c *Catalog) normalize() {
	for i := range c.Routes {
		c.Routes[i].Path = strings.TrimSpace(c.Routes[i].Path)
		c.Routes[i].Description = strings.TrimSpace(c.Routes[i].Description)
		c.Routes[i].Keywords = normalizePhrases(c.Routes[i].Keywords)
	}
	for i := range c.Fields {
		c.Fields[i].Key = strings.ToLower(strings.TrimSpace(c.Fields[i].Key))
		c.Fields[i].Label = strings.TrimSpace(c.Fields[i].Label)
		c.Fields[i].Synonyms = normalizePhrases(c.Fields[i].Synonyms)
	}
	c.Lexicon.normalize()
}

func normalizePhrases(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}

func decodeEmbedded(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("could not read embedded %s: %w", name, err)
	}
	if err := toml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("could not parse embedded %s: %w", name, err)
	}
	return nil
}

func mergeStringSlices(base []string, extras []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extras))
	out := make([]string, 0, len(base)+len(extras))
	for _, item := range base {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	for _, item := range extras {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
