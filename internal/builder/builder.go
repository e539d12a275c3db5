// Package builder assembles the project model from declaration descriptors.
// It applies the exposure rules (public members only, no templates, no
// unsupported parameter types), merges re-declarations across headers,
// registers STL container instantiations, resolves overload buckets and
// finally runs the identity engine over the finished tree.
package builder

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/wukongiii/embindgen/internal/decl"
	"github.com/wukongiii/embindgen/internal/diag"
	"github.com/wukongiii/embindgen/internal/model"
)

// Builder accumulates declarations from one or more header dumps and
// produces a single unified Project.
type Builder struct {
	log     *zap.SugaredLogger
	project *model.Project
	report  *diag.Report

	// merge indices, keyed by the internal scope path ("Game::Vector2")
	namespaces map[string]*model.Namespace
	classes    map[string]*model.Class
	enums      map[string]*model.Enum
	constants  map[string]*model.Constant
	containers map[string]*model.Container
	kindAt     map[string]model.Kind
}

// scopeCtx tracks where the walk currently is: the identity parent for new
// nodes, the containment scope that receives them, and the path used for
// cross-header merging. Hoisted nested classes keep the class as identity
// parent while landing in the enclosing namespace's scope.
type scopeCtx struct {
	path  string
	base  *model.Base
	scope *model.Scope
}

// New creates a Builder for the named output module. A nil logger disables
// build-time logging.
func New(moduleName string, log *zap.SugaredLogger) *Builder {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &model.Project{
		Base: model.Base{
			Kind:        model.KindProject,
			Name:        moduleName,
			TaggingName: moduleName,
		},
	}
	return &Builder{
		log:        log,
		project:    p,
		report:     diag.NewReport(),
		namespaces: make(map[string]*model.Namespace),
		classes:    make(map[string]*model.Class),
		enums:      make(map[string]*model.Enum),
		constants:  make(map[string]*model.Constant),
		containers: make(map[string]*model.Container),
		kindAt:     make(map[string]model.Kind),
	}
}

// AddFile merges one header dump into the model under construction.
func (b *Builder) AddFile(f *decl.File) error {
	if f.Header != "" {
		seen := false
		for _, inc := range b.project.Includes {
			if inc == f.Header {
				seen = true
				break
			}
		}
		if !seen {
			b.project.Includes = append(b.project.Includes, f.Header)
		}
	}

	root := scopeCtx{base: &b.project.Base, scope: &b.project.Scope}
	return b.addDecls(root, f.Decls)
}

// Build finishes the model: overload buckets are resolved, constructor
// arity conflicts dropped, and the identity engine applied. The returned
// Project is read-only from here on.
func (b *Builder) Build(m model.Mangling) (*model.Project, *diag.Report, error) {
	b.resolveOverloads(&b.project.Scope)
	if err := m.Apply(b.project); err != nil {
		return nil, b.report, err
	}
	return b.project, b.report, nil
}

func (b *Builder) addDecls(sc scopeCtx, decls []decl.Decl) error {
	for i := range decls {
		d := &decls[i]
		if err := b.addDecl(sc, d); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) addDecl(sc scopeCtx, d *decl.Decl) error {
	switch d.Kind {
	case decl.KindNamespace:
		return b.addNamespace(sc, d)
	case decl.KindClass, decl.KindStruct:
		return b.addClass(sc, d)
	case decl.KindEnum:
		return b.addEnum(sc, d)
	case decl.KindFunction:
		return b.addFunction(sc, d)
	case decl.KindVariable:
		if d.Const {
			return b.addConstant(sc, d)
		}
		// Non-const namespace-scope values need explicit accessors to be
		// exposed; they are silently excluded like the analyzer's own
		// implementation details.
		return nil
	case decl.KindTypedef:
		b.registerContainers(d.Type)
		return nil
	default:
		b.omit(childPath(sc.path, d.Name), fmt.Sprintf("unsupported declaration kind %q at namespace scope", d.Kind))
		return nil
	}
}

func (b *Builder) addNamespace(sc scopeCtx, d *decl.Decl) error {
	if d.Anonymous || d.Name == "" {
		b.omit(childPath(sc.path, "(anonymous namespace)"), "anonymous namespaces are not exposed")
		return nil
	}

	path := childPath(sc.path, d.Name)
	ns, ok := b.namespaces[path]
	if !ok {
		if err := b.declare(path, model.KindNamespace); err != nil {
			return err
		}
		ns = &model.Namespace{
			Base: model.Base{
				Kind:        model.KindNamespace,
				Name:        d.Name,
				TaggingName: d.Name,
				Parent:      sc.base,
			},
		}
		b.namespaces[path] = ns
		sc.scope.Namespaces = append(sc.scope.Namespaces, ns)
	}

	return b.addDecls(scopeCtx{path: path, base: &ns.Base, scope: &ns.Scope}, d.Children)
}

func (b *Builder) addClass(sc scopeCtx, d *decl.Decl) error {
	path := childPath(sc.path, d.Name)

	if d.Template {
		b.omit(path, "template classes are not supported")
		return nil
	}
	if d.Anonymous || d.Name == "" {
		b.omit(childPath(sc.path, "(anonymous)"), "anonymous records are not exposed")
		return nil
	}

	kind := model.KindClass
	if d.Kind == decl.KindStruct {
		kind = model.KindStruct
	}

	existing, ok := b.classes[path]
	if ok {
		if !d.Definition {
			return nil // forward declaration of a known entity
		}
		if existing.Defined {
			// Re-definition across headers: same shape means the same
			// logical entity seen twice, anything else is a conflict.
			if existing.Kind != kind || !sameClassShape(existing, d) {
				return errors.Wrapf(model.ErrIdentifierCollision,
					"%s redefined with an incompatible shape", path)
			}
			return nil
		}
		existing.Defined = true
		existing.BaseClass = d.BaseClass
		return b.populateClass(existing, sc, path, d)
	}

	if err := b.declare(path, kind); err != nil {
		return err
	}
	c := &model.Class{
		Base: model.Base{
			Kind:        kind,
			Name:        d.Name,
			TaggingName: d.Name,
			Parent:      sc.base,
		},
		BaseClass: d.BaseClass,
		Defined:   d.Definition,
	}
	b.classes[path] = c
	sc.scope.Classes = append(sc.scope.Classes, c)

	if !d.Definition {
		return nil
	}
	return b.populateClass(c, sc, path, d)
}

// populateClass walks the public members of a class definition. Nested
// classes, structs and enums are hoisted into the enclosing namespace scope
// while keeping the class as their identity parent.
func (b *Builder) populateClass(c *model.Class, sc scopeCtx, path string, d *decl.Decl) error {
	hoist := scopeCtx{path: path, base: &c.Base, scope: sc.scope}

	for i := range d.Children {
		ch := &d.Children[i]
		if !ch.IsPublic() {
			continue
		}

		switch ch.Kind {
		case decl.KindConstructor:
			b.addConstructor(c, path, ch)
		case decl.KindMethod:
			if err := b.addMethod(c, path, ch); err != nil {
				return err
			}
		case decl.KindDestructor:
			// destruction is the runtime's concern
		case decl.KindField:
			b.addProperty(c, path, ch)
		case decl.KindVariable:
			if ch.Static {
				b.addProperty(c, path, ch)
			}
		case decl.KindEnum:
			if err := b.addEnum(hoist, ch); err != nil {
				return err
			}
		case decl.KindClass, decl.KindStruct:
			if err := b.addClass(hoist, ch); err != nil {
				return err
			}
		case decl.KindTypedef:
			b.registerContainers(ch.Type)
		default:
			b.omit(childPath(path, ch.Name), fmt.Sprintf("unsupported declaration kind %q in class", ch.Kind))
		}
	}
	return nil
}

func (b *Builder) addConstructor(c *model.Class, path string, d *decl.Decl) {
	if d.Template {
		b.omit(path, "template constructors are not supported")
		return
	}
	if reason := unsupportedSignature(d); reason != "" {
		b.omit(path, reason)
		return
	}
	for _, existing := range c.Constructors {
		if sameParams(existing.Params, d.Params) {
			return // re-declaration of a known constructor
		}
	}
	ctor := &model.Callable{
		Base: model.Base{
			Kind:   model.KindConstructor,
			Parent: &c.Base,
		},
		Params:     append([]string(nil), d.Params...),
		ReturnType: "",
	}
	c.Constructors = append(c.Constructors, ctor)
	b.registerCallableContainers(ctor)
}

func (b *Builder) addMethod(c *model.Class, path string, d *decl.Decl) error {
	if d.Template {
		b.omit(childPath(path, d.Name), "template functions are not supported")
		return nil
	}
	if reason := unsupportedSignature(d); reason != "" {
		b.omit(childPath(path, d.Name), reason)
		return nil
	}

	kind := model.KindMethod
	bucket := &c.Methods
	if d.Static {
		kind = model.KindStaticMethod
		bucket = &c.StaticMethods
	}

	// Overload buckets span static and instance members of one name.
	for _, list := range []*[]*model.Callable{&c.Methods, &c.StaticMethods} {
		for _, existing := range *list {
			if existing.Name != d.Name || !sameParams(existing.Params, d.Params) {
				continue
			}
			if existing.ReturnType == d.ReturnType && existing.ConstSelf == d.Const {
				return nil // re-declaration of a known method
			}
			return errors.Wrapf(model.ErrIdentifierCollision,
				"%s: overloads distinguishable only by return type or receiver qualification", childPath(path, d.Name))
		}
	}

	m := &model.Callable{
		Base: model.Base{
			Kind:        kind,
			Name:        d.Name,
			TaggingName: model.TaggingNameFor(d.Name),
			Parent:      &c.Base,
		},
		Params:     append([]string(nil), d.Params...),
		ReturnType: d.ReturnType,
		ConstSelf:  d.Const,
	}
	*bucket = append(*bucket, m)
	b.registerCallableContainers(m)
	return nil
}

func (b *Builder) addProperty(c *model.Class, path string, d *decl.Decl) {
	if isVoidPointer(d.Type) {
		b.omit(childPath(path, d.Name), "void pointer in class property is not supported")
		return
	}
	kind := model.KindProperty
	bucket := &c.Properties
	if d.Static {
		kind = model.KindStaticProperty
		bucket = &c.StaticProperties
	}
	for _, existing := range *bucket {
		if existing.Name == d.Name {
			return
		}
	}
	p := &model.Property{
		Base: model.Base{
			Kind:        kind,
			Name:        d.Name,
			TaggingName: d.Name,
			Parent:      &c.Base,
		},
		TypeName: d.Type,
		Const:    d.Const,
	}
	*bucket = append(*bucket, p)
	b.registerContainers(d.Type)
}

func (b *Builder) addEnum(sc scopeCtx, d *decl.Decl) error {
	if d.Anonymous || d.Name == "" {
		b.omit(childPath(sc.path, "(anonymous enum)"), "anonymous enums are not exposed")
		return nil
	}

	path := childPath(sc.path, d.Name)
	if existing, ok := b.enums[path]; ok {
		if len(existing.Values) != countEnumValues(d) {
			return errors.Wrapf(model.ErrIdentifierCollision,
				"%s redefined with an incompatible shape", path)
		}
		return nil
	}
	if err := b.declare(path, model.KindEnum); err != nil {
		return err
	}

	e := &model.Enum{
		Base: model.Base{
			Kind:        model.KindEnum,
			Name:        d.Name,
			TaggingName: d.Name,
			Parent:      sc.base,
		},
		Underlying: d.Underlying,
	}
	for i := range d.Children {
		ch := &d.Children[i]
		if ch.Kind != decl.KindEnumValue {
			continue
		}
		e.Values = append(e.Values, &model.EnumValue{
			Base: model.Base{
				Kind:        model.KindEnumValue,
				Name:        ch.Name,
				TaggingName: ch.Name,
				Parent:      &e.Base,
			},
			Literal: ch.Value,
		})
	}
	b.enums[path] = e
	sc.scope.Enums = append(sc.scope.Enums, e)
	return nil
}

func (b *Builder) addFunction(sc scopeCtx, d *decl.Decl) error {
	path := childPath(sc.path, d.Name)
	if d.Template {
		b.omit(path, "template functions are not supported")
		return nil
	}
	if reason := unsupportedSignature(d); reason != "" {
		b.omit(path, reason)
		return nil
	}

	for _, existing := range sc.scope.Functions {
		if existing.Name != d.Name || !sameParams(existing.Params, d.Params) {
			continue
		}
		if existing.ReturnType == d.ReturnType {
			return nil // re-declaration of a known function
		}
		return errors.Wrapf(model.ErrIdentifierCollision,
			"%s: overloads distinguishable only by return type", path)
	}

	f := &model.Callable{
		Base: model.Base{
			Kind:        model.KindFunction,
			Name:        d.Name,
			TaggingName: model.TaggingNameFor(d.Name),
			Parent:      sc.base,
		},
		Params:     append([]string(nil), d.Params...),
		ReturnType: d.ReturnType,
	}
	sc.scope.Functions = append(sc.scope.Functions, f)
	b.registerCallableContainers(f)
	return nil
}

func (b *Builder) addConstant(sc scopeCtx, d *decl.Decl) error {
	path := childPath(sc.path, d.Name)
	if _, ok := b.constants[path]; ok {
		return nil
	}
	if err := b.declare(path, model.KindConstant); err != nil {
		return err
	}
	c := &model.Constant{
		Base: model.Base{
			Kind:        model.KindConstant,
			Name:        d.Name,
			TaggingName: d.Name,
			Parent:      sc.base,
		},
		TypeName: d.Type,
	}
	b.constants[path] = c
	sc.scope.Constants = append(sc.scope.Constants, c)
	return nil
}

// resolveOverloads marks every member of a multi-entry (scope, name) bucket
// and computes its parameter signature. Constructor buckets additionally
// drop same-arity overloads: the target runtime resolves constructors by
// parameter count alone.
func (b *Builder) resolveOverloads(s *model.Scope) {
	markBuckets(s.Functions)
	for _, c := range s.Classes {
		members := make([]*model.Callable, 0, len(c.Methods)+len(c.StaticMethods))
		members = append(members, c.Methods...)
		members = append(members, c.StaticMethods...)
		markBuckets(members)
		c.Constructors = b.resolveConstructors(c)
	}
	for _, ns := range s.Namespaces {
		b.resolveOverloads(&ns.Scope)
	}
}

func (b *Builder) resolveConstructors(c *model.Class) []*model.Callable {
	kept := c.Constructors[:0]
	byArity := make(map[int]bool)
	for _, ctor := range c.Constructors {
		if byArity[len(ctor.Params)] {
			b.omit(pathOf(&c.Base),
				fmt.Sprintf("constructor overloads with %d parameter(s) are resolved by arity only; duplicate dropped", len(ctor.Params)))
			continue
		}
		byArity[len(ctor.Params)] = true
		kept = append(kept, ctor)
	}
	if len(kept) > 1 {
		for _, ctor := range kept {
			ctor.Overloaded = true
			ctor.Signature = strings.Join(ctor.Params, ", ")
		}
	}
	return kept
}

func markBuckets(callables []*model.Callable) {
	byName := make(map[string][]*model.Callable)
	for _, f := range callables {
		byName[f.Name] = append(byName[f.Name], f)
	}
	for _, bucket := range byName {
		if len(bucket) < 2 {
			continue
		}
		for _, f := range bucket {
			f.Overloaded = true
			f.Signature = strings.Join(f.Params, ", ")
		}
	}
}

// declare records the construct kind observed at a scope path and rejects
// cross-kind conflicts (a class and an enum sharing one qualified name).
func (b *Builder) declare(path string, kind model.Kind) error {
	if existing, ok := b.kindAt[path]; ok && existing != kind {
		return errors.Wrapf(model.ErrIdentifierCollision,
			"%s declared as both %s and %s", path, existing, kind)
	}
	b.kindAt[path] = kind
	return nil
}

func (b *Builder) omit(fullName, reason string) {
	b.report.Omit(fullName, reason)
	b.log.Warnw("unsupported construct omitted", "full_name", fullName, "reason", reason)
}

// pathOf reconstructs the internal scope path from a node's parent chain.
func pathOf(n *model.Base) string {
	if n == nil || n.Kind == model.KindProject {
		return ""
	}
	return childPath(pathOf(n.Parent), n.Name)
}

func childPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "::" + name
}

func sameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameClassShape compares an already-built class against a re-definition's
// public surface. Member-level type comparison is deliberately shallow; a
// matching census is taken as the same textual definition seen twice.
func sameClassShape(c *model.Class, d *decl.Decl) bool {
	if c.BaseClass != d.BaseClass {
		return false
	}
	var ctors, methods, statics, fields, staticFields int
	for i := range d.Children {
		ch := &d.Children[i]
		if !ch.IsPublic() || ch.Template {
			continue
		}
		switch ch.Kind {
		case decl.KindConstructor:
			if unsupportedSignature(ch) == "" {
				ctors++
			}
		case decl.KindMethod:
			if unsupportedSignature(ch) != "" {
				continue
			}
			if ch.Static {
				statics++
			} else {
				methods++
			}
		case decl.KindField:
			if !isVoidPointer(ch.Type) {
				fields++
			}
		case decl.KindVariable:
			if ch.Static && !isVoidPointer(ch.Type) {
				staticFields++
			}
		}
	}
	return ctors == len(c.Constructors) &&
		methods == len(c.Methods) &&
		statics == len(c.StaticMethods) &&
		fields == len(c.Properties) &&
		staticFields == len(c.StaticProperties)
}

func countEnumValues(d *decl.Decl) int {
	n := 0
	for i := range d.Children {
		if d.Children[i].Kind == decl.KindEnumValue {
			n++
		}
	}
	return n
}

// unsupportedSignature returns a non-empty reason when a callable uses types
// the binding layer cannot express.
func unsupportedSignature(d *decl.Decl) string {
	if isVoidPointer(d.ReturnType) {
		return "void pointer return type is not supported"
	}
	for _, p := range d.Params {
		if isVoidPointer(p) {
			return "void pointer parameter is not supported"
		}
		if isNonConstReference(p) {
			return "non-const reference parameter is not supported"
		}
	}
	return ""
}

func isVoidPointer(t string) bool {
	t = strings.TrimSpace(t)
	return t == "void *" || t == "void*"
}

func isNonConstReference(t string) bool {
	t = strings.TrimSpace(t)
	return strings.HasSuffix(t, "&") && !strings.HasPrefix(t, "const ")
}
