// Package render walks a built project and produces one output document per
// backend through the rule templates of a resolved render context. Backends
// never re-derive identifiers: the mangled names computed by the identity
// engine are read off the tree verbatim, which is what keeps the generated
// documents in agreement with the compiled binding table.
package render

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/wukongiii/embindgen/internal/diag"
	"github.com/wukongiii/embindgen/internal/model"
	"github.com/wukongiii/embindgen/internal/style"
)

// Render produces the document for the context's backend. The report's
// omissions surface as comment lines in the native document; a nil report
// renders without them.
func Render(p *model.Project, rep *diag.Report, ctx *style.Context) (string, error) {
	switch ctx.Backend {
	case style.BackendEmbind:
		return renderEmbind(p, rep, ctx)
	case style.BackendDTS, style.BackendPreJS:
		return renderProjection(p, ctx)
	default:
		return "", errors.Wrapf(style.ErrConfiguration, "no renderer for backend %q", ctx.Backend)
	}
}

// Info is the data a rule template sees when tagging one node.
type Info struct {
	ModuleName  string
	TypeName    string // C++ type spelling (qualified name for records/enums)
	TaggingType string
	Name        string
	TaggingName string
	FullName    string
	MangledName string
	Prefix      string
	Suffix      string

	// callables
	Args         string // joined parameter types
	Signature    string // disambiguation signature (parameters only)
	OverloadType string // full C++ function type for overload selection
	ReturnType   string

	// kind-specific
	BaseClassName     string
	TemplateArgs      string
	PointerPolicy     string
	ReturnValuePolicy string
	DisplayName       string
	Literal           string
}

// ProjectInfo is the data for the document header and footer templates.
type ProjectInfo struct {
	ModuleName string
	Includes   []string
}

// nodeInfo fills the fields shared by every node kind.
func nodeInfo(moduleName string, n *model.Base, r *style.CompiledRule) Info {
	return Info{
		ModuleName:  moduleName,
		TypeName:    n.FullName,
		TaggingType: r.TaggingType,
		Name:        n.Name,
		TaggingName: n.TaggingName,
		FullName:    n.FullName,
		MangledName: n.MangledName,
		Prefix:      r.Prefix,
		Suffix:      r.Suffix,
	}
}

// callableInfo extends nodeInfo with the parameter and policy fields.
func callableInfo(moduleName string, f *model.Callable, r *style.CompiledRule) Info {
	info := nodeInfo(moduleName, &f.Base, r)
	info.Args = strings.Join(f.Params, ", ")
	info.Signature = f.Signature
	info.OverloadType = f.ReturnType + "(" + info.Args + ")"
	info.ReturnType = f.ReturnType

	// Raw pointers carry unclear lifetime semantics; the binding layer
	// requires their use to be marked explicitly.
	if f.TakesRawPointer() {
		info.PointerPolicy = ", allow_raw_pointers()"
	}
	if f.ReturnsRawPointer() {
		info.PointerPolicy = ", return_value_policy::reference()"
	}
	return info
}

func overloadVariant(f *model.Callable) string {
	if f.Overloaded {
		return "overloaded"
	}
	return "non_overloaded"
}

func derivedVariant(c *model.Class) string {
	if c.Derived() {
		return "derived"
	}
	return "non_derived"
}

// line appends one rendered rule line at the given depth.
func line(b *strings.Builder, ctx *style.Context, depth int, text string) {
	for _, l := range strings.Split(text, "\n") {
		b.WriteString(ctx.Indent(depth))
		b.WriteString(l)
		b.WriteByte('\n')
	}
}
