package builder

import (
	"strings"

	"github.com/wukongiii/embindgen/internal/model"
)

// supportedContainers lists the std templates the registry accepts, longest
// spelling first so unordered variants are not matched as their plain forms.
var supportedContainers = []string{
	"unordered_map",
	"unordered_set",
	"vector",
	"map",
	"set",
}

// registerCallableContainers scans a callable's parameter and return types
// for container instantiations.
func (b *Builder) registerCallableContainers(f *model.Callable) {
	b.registerContainers(f.ReturnType)
	for _, p := range f.Params {
		b.registerContainers(p)
	}
}

// registerContainers registers every container instantiation spelled in the
// given type into the project registry, first-seen order, each distinct
// (kind, args) pair exactly once. Reference and const qualifiers around the
// instantiation are irrelevant to its identity.
func (b *Builder) registerContainers(spelling string) {
	kind, args, ok := parseContainer(spelling)
	if !ok {
		return
	}

	c := model.NewContainer(kind, args, &b.project.Base)
	if _, seen := b.containers[c.Key()]; seen {
		return
	}
	b.containers[c.Key()] = c
	b.project.Containers = append(b.project.Containers, c)
}

// parseContainer extracts the outermost supported container instantiation
// from a type spelling, e.g. "const std::vector<int> &" -> ("vector", [int]).
func parseContainer(spelling string) (kind string, args []string, ok bool) {
	for _, name := range supportedContainers {
		marker := "std::" + name + "<"
		start := strings.Index(spelling, marker)
		if start < 0 {
			continue
		}
		inner, closed := balancedAngles(spelling[start+len(marker):])
		if !closed {
			continue
		}
		return name, splitTemplateArgs(inner), true
	}
	return "", nil, false
}

// balancedAngles returns the content up to the matching closing bracket.
func balancedAngles(s string) (string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			if depth == 0 {
				return s[:i], true
			}
			depth--
		}
	}
	return "", false
}

// splitTemplateArgs splits template arguments on top-level commas.
func splitTemplateArgs(s string) []string {
	var args []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[last:]); tail != "" {
		args = append(args, tail)
	}
	return args
}
