// Package style loads style sheets and resolves them into validated render
// contexts. A style sheet carries one shared mangling section and, per
// backend, a table of per-construct-kind render rules; the shared section
// guarantees that every backend of a run derives identifiers the same way.
package style

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wukongiii/embindgen/internal/model"
)

// ErrConfiguration marks an active style that lacks a required rule or
// carries an unparseable template. It is always fatal, and detected while
// resolving the context, never mid-render.
var ErrConfiguration = errors.New("configuration error")

// Backend names selectable from a style sheet.
const (
	BackendEmbind = "embind"
	BackendDTS    = "dts"
	BackendPreJS  = "prejs"
)

// Rule is the render rule for one construct kind: a tagging type with
// prefix/suffix decoration and either a single template or named variants
// (overloaded/non_overloaded, derived/non_derived, open/close).
type Rule struct {
	TaggingType string            `yaml:"tagging_type" json:"tagging_type"`
	Prefix      string            `yaml:"prefix" json:"prefix"`
	Suffix      string            `yaml:"suffix" json:"suffix"`
	Template    string            `yaml:"template" json:"template"`
	Templates   map[string]string `yaml:"templates" json:"templates"`
}

// Sheet is a complete style sheet: the shared identity configuration plus
// the per-backend rule tables.
type Sheet struct {
	Mangling    model.Mangling                 `yaml:"mangling" json:"mangling"`
	IndentSpace int                            `yaml:"indent_space" json:"indent_space"`
	Styles      map[string]map[model.Kind]Rule `yaml:"styles" json:"styles"`
}

// LoadFile merges a style sheet file (YAML or JSON based on extension) over
// the receiver.
func (s *Sheet) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(ErrConfiguration, "reading style sheet %s: %v", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var loaded Sheet
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return errors.Wrapf(ErrConfiguration, "parsing YAML style sheet %s: %v", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return errors.Wrapf(ErrConfiguration, "parsing JSON style sheet %s: %v", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return errors.Wrapf(ErrConfiguration, "unable to parse %s as YAML or JSON", path)
			}
		}
	}

	s.merge(&loaded)
	return nil
}

// merge overlays the loaded sheet: scalar fields override when set, maps
// merge per key.
func (s *Sheet) merge(loaded *Sheet) {
	if loaded.Mangling.FullNameSeparator != "" {
		s.Mangling.FullNameSeparator = loaded.Mangling.FullNameSeparator
	}
	if loaded.Mangling.Separator != "" {
		s.Mangling.Separator = loaded.Mangling.Separator
	}
	if loaded.Mangling.Template != "" {
		s.Mangling.Template = loaded.Mangling.Template
	}
	for k, v := range loaded.Mangling.Prefixes {
		s.Mangling.Prefixes[k] = v
	}
	if loaded.IndentSpace > 0 {
		s.IndentSpace = loaded.IndentSpace
	}

	for backend, rules := range loaded.Styles {
		if s.Styles[backend] == nil {
			s.Styles[backend] = make(map[model.Kind]Rule)
		}
		for kind, rule := range rules {
			s.Styles[backend][kind] = mergeRule(s.Styles[backend][kind], rule)
		}
	}
}

func mergeRule(base, over Rule) Rule {
	if over.TaggingType != "" {
		base.TaggingType = over.TaggingType
	}
	if over.Prefix != "" {
		base.Prefix = over.Prefix
	}
	if over.Suffix != "" {
		base.Suffix = over.Suffix
	}
	if over.Template != "" {
		base.Template = over.Template
	}
	if len(over.Templates) > 0 {
		if base.Templates == nil {
			base.Templates = make(map[string]string)
		}
		for variant, tmpl := range over.Templates {
			base.Templates[variant] = tmpl
		}
	}
	return base
}

// CompiledRule is a Rule with all its template variants parsed.
type CompiledRule struct {
	Rule
	templates map[string]*template.Template
}

// HasVariant reports whether the rule carries a template for the variant.
// Backends use it to probe optional variants before dispatching on them.
func (r *CompiledRule) HasVariant(variant string) bool {
	_, ok := r.templates[variant]
	return ok
}

// Execute renders one template variant of the rule. The empty variant name
// selects the rule's single default template.
func (r *CompiledRule) Execute(variant string, data any) (string, error) {
	tmpl, ok := r.templates[variant]
	if !ok {
		return "", errors.Wrapf(ErrConfiguration, "no template variant %q", variant)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrapf(err, "executing template variant %q", variant)
	}
	return b.String(), nil
}

// Context is a resolved, fully-validated rule table for one backend. Every
// construct kind present in the model is guaranteed to have a rule with the
// template variants the backend dispatches on.
type Context struct {
	Backend     string
	Mangling    model.Mangling
	IndentSpace int
	rules       map[model.Kind]*CompiledRule
}

// Rule returns the compiled rule for a kind. Resolve guarantees presence
// for every kind the backend renders.
func (c *Context) Rule(kind model.Kind) *CompiledRule {
	return c.rules[kind]
}

// Indent returns the whitespace for one nesting level multiplied by depth.
func (c *Context) Indent(depth int) string {
	return strings.Repeat(" ", depth*c.IndentSpace)
}

// Resolve validates the sheet's rule table for one backend against the set
// of construct kinds present in the model and compiles every template. All
// ConfigurationError conditions surface here, before rendering starts.
func (s *Sheet) Resolve(backend string, present map[model.Kind]bool) (*Context, error) {
	rules, ok := s.Styles[backend]
	if !ok {
		return nil, errors.Wrapf(ErrConfiguration, "unknown backend style %q", backend)
	}

	ctx := &Context{
		Backend:     backend,
		Mangling:    s.Mangling,
		IndentSpace: s.IndentSpace,
		rules:       make(map[model.Kind]*CompiledRule),
	}
	if ctx.IndentSpace <= 0 {
		ctx.IndentSpace = 4
	}

	for kind := range present {
		required, rendered := renderedKinds[backend][kind]
		if !rendered {
			continue
		}
		rule, ok := rules[kind]
		if !ok {
			return nil, errors.Wrapf(ErrConfiguration,
				"style %q has no rule for construct kind %q", backend, kind)
		}
		compiled, err := compileRule(backend, kind, rule, required)
		if err != nil {
			return nil, err
		}
		ctx.rules[kind] = compiled
	}
	return ctx, nil
}

func compileRule(backend string, kind model.Kind, rule Rule, variants []string) (*CompiledRule, error) {
	compiled := &CompiledRule{
		Rule:      rule,
		templates: make(map[string]*template.Template),
	}

	parse := func(variant, text string) error {
		tmpl, err := template.New(string(kind) + "/" + variant).
			Funcs(templateFuncs()).
			Parse(text)
		if err != nil {
			return errors.Wrapf(ErrConfiguration,
				"style %q, kind %q, variant %q: %v", backend, kind, variant, err)
		}
		compiled.templates[variant] = tmpl
		return nil
	}

	if rule.Template != "" {
		if err := parse("", rule.Template); err != nil {
			return nil, err
		}
	}
	for variant, text := range rule.Templates {
		if err := parse(variant, text); err != nil {
			return nil, err
		}
	}

	for _, variant := range variants {
		if _, ok := compiled.templates[variant]; !ok {
			return nil, errors.Wrapf(ErrConfiguration,
				"style %q, kind %q: missing template variant %q", backend, kind, variant)
		}
	}
	return compiled, nil
}
