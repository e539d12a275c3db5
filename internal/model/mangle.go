package model

import (
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
)

// ErrIdentifierCollision marks two distinct logical entities that would be
// assigned the same identifier. It is always fatal.
var ErrIdentifierCollision = errors.New("identifier collision")

// Mangling configures the identity engine: how qualified names are joined
// and how the globally-unique mangled names are folded over the ancestor
// chain. Every backend of one run must share the same Mangling value, since
// the generated documents reference mangled names as opaque keys into a
// single compiled binding table.
type Mangling struct {
	FullNameSeparator string            `yaml:"full_name_separator" json:"full_name_separator"`
	Separator         string            `yaml:"separator" json:"separator"`
	Template          string            `yaml:"template" json:"template"`
	Prefixes          map[string]string `yaml:"prefixes" json:"prefixes"`
}

// DefaultMangling returns the default identity configuration.
func DefaultMangling() Mangling {
	return Mangling{
		FullNameSeparator: "::",
		Separator:         "__",
		Template:          "{{.ParentMangled}}{{.Sep}}{{.Prefix}}{{.Name}}",
		Prefixes: map[string]string{
			string(KindNamespace): "N_",
			string(KindClass):     "C_",
			string(KindStruct):    "S_",
			string(KindEnum):      "E_",
			"vector":              "STL__V_",
			"map":                 "STL__M_",
			"set":                 "STL__S_",
			"unordered_map":       "STL__UM_",
			"unordered_set":       "STL__US_",
		},
	}
}

// manglingData is the data passed to the mangling template at each fold step.
type manglingData struct {
	ParentMangled string
	Sep           string
	Prefix        string
	Name          string
}

// Apply assigns FullName and MangledName to every node of the project and
// verifies that no two distinct logical entities share a mangled name. It is
// pure given the receiver: applying the same configuration to a model built
// from the same input always yields the same assignment.
func (m Mangling) Apply(p *Project) error {
	tmpl, err := template.New("mangling").Parse(m.Template)
	if err != nil {
		return errors.Wrapf(err, "parsing mangling template")
	}

	// The project root contributes nothing to its children's names.
	p.FullName = ""
	p.MangledName = ""

	var applyErr error
	done := map[*Base]bool{&p.Base: true}
	seen := make(map[string]string) // mangled name -> full name
	p.Walk(func(n *Base) {
		if applyErr != nil {
			return
		}
		if err := m.assign(tmpl, n, done); err != nil {
			applyErr = err
			return
		}
		if n.Kind == KindConstructor {
			// Constructors share the enclosing class identity; the
			// overload bucket disambiguates them by arity.
			return
		}
		if prev, ok := seen[n.MangledName]; ok {
			if prev == n.FullName {
				// Same logical entity: members of one overload bucket.
				return
			}
			applyErr = errors.Wrapf(ErrIdentifierCollision,
				"%q and %q both mangle to %q", prev, n.FullName, n.MangledName)
			return
		}
		seen[n.MangledName] = n.FullName
	})
	return applyErr
}

// assign computes one node's names from its parent. Containment does not
// always mirror identity (types hoisted out of an enclosing class keep the
// class as parent and can be visited before it), so the parent's names are
// computed on demand first; done memoizes finished nodes.
func (m Mangling) assign(tmpl *template.Template, n *Base, done map[*Base]bool) error {
	if done[n] {
		return nil
	}
	if n.Parent != nil && !done[n.Parent] {
		if err := m.assign(tmpl, n.Parent, done); err != nil {
			return err
		}
	}
	done[n] = true

	var parentFull, parentMangled string
	if n.Parent != nil && n.Parent.Kind != KindProject {
		parentFull = n.Parent.FullName
		parentMangled = n.Parent.MangledName
	}

	switch {
	case n.Name == "":
		// Constructors carry no name of their own.
		n.FullName = parentFull
	case parentFull == "":
		n.FullName = n.Name
	default:
		n.FullName = parentFull + m.FullNameSeparator + n.Name
	}

	sep := m.Separator
	if parentMangled == "" {
		sep = ""
	}
	if n.Name == "" {
		n.MangledName = parentMangled
		return nil
	}

	var b strings.Builder
	err := tmpl.Execute(&b, manglingData{
		ParentMangled: parentMangled,
		Sep:           sep,
		Prefix:        m.prefix(n),
		Name:          n.TaggingName,
	})
	if err != nil {
		return errors.Wrapf(err, "mangling %s", n.FullName)
	}
	n.MangledName = b.String()
	return nil
}

// prefix returns the kind prefix a node contributes to its mangled name.
// Containers are keyed by their container kind rather than the node kind.
func (m Mangling) prefix(n *Base) string {
	key := string(n.Kind)
	if n.Kind == KindContainer {
		key = n.containerKind
	}
	return m.Prefixes[key]
}
