// Package model defines the intermediate representation built from parsed
// C++ declarations: an immutable tree of namespaces, classes, callables and
// values, plus the identity engine that assigns every node its qualified and
// mangled names.
package model

import "strings"

// Kind represents the category of a model node.
type Kind string

const (
	KindProject        Kind = "project"
	KindNamespace      Kind = "namespace"
	KindClass          Kind = "class"
	KindStruct         Kind = "struct"
	KindEnum           Kind = "enum"
	KindEnumValue      Kind = "enum_value"
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindStaticMethod   Kind = "static_method"
	KindConstructor    Kind = "constructor"
	KindProperty       Kind = "property"
	KindStaticProperty Kind = "static_property"
	KindConstant       Kind = "constant"
	KindContainer      Kind = "stl_container"
)

// Base carries the attributes shared by every node. Parent is a non-owning
// back-reference into the tree; the Project aggregate owns all nodes.
// FullName and MangledName are assigned once by Mangling.Apply and read-only
// afterwards.
type Base struct {
	Kind        Kind
	Name        string // name as spelled in the AST (empty for constructors)
	TaggingName string // name used in output documents (operators are remapped)
	Parent      *Base
	FullName    string
	MangledName string

	containerKind string // set for KindContainer only; drives the mangling prefix
}

// Scope holds the ordered children a namespace-like owner can contain.
// Classes hoisted out of an enclosing class keep their original parent
// chain, so containment here does not always mirror identity.
type Scope struct {
	Constants  []*Constant
	Functions  []*Callable
	Enums      []*Enum
	Classes    []*Class
	Namespaces []*Namespace
}

// Project is the root aggregate. It owns all namespaces, the deduplicated
// STL container registry, and every top-level declaration.
type Project struct {
	Base
	Scope
	Includes   []string // header include paths, input order
	Containers []*Container
}

// Namespace may nest arbitrarily.
type Namespace struct {
	Base
	Scope
}

// Class represents a class or struct (Kind distinguishes the two). Defined
// is false while only forward declarations have been seen.
type Class struct {
	Base
	BaseClass        string // qualified base class name, empty if not derived
	Defined          bool
	Constructors     []*Callable
	Methods          []*Callable
	StaticMethods    []*Callable
	Properties       []*Property
	StaticProperties []*Property
}

// Derived reports whether the class has a base class.
func (c *Class) Derived() bool { return c.BaseClass != "" }

// Callable represents a free function, method, static method or constructor.
type Callable struct {
	Base
	Params     []string // ordered canonical parameter type spellings
	ReturnType string
	ConstSelf  bool // const-qualified receiver

	// Overloaded and Signature are computed during overload resolution.
	Overloaded bool
	Signature  string
}

// TakesRawPointer reports whether any parameter is a raw pointer.
func (c *Callable) TakesRawPointer() bool {
	for _, p := range c.Params {
		if strings.HasSuffix(p, "*") {
			return true
		}
	}
	return false
}

// ReturnsRawPointer reports whether the return type is a raw pointer.
func (c *Callable) ReturnsRawPointer() bool {
	return strings.HasSuffix(c.ReturnType, "*")
}

// Property represents an instance field or a static class value.
type Property struct {
	Base
	TypeName string
	Const    bool
}

// Enum carries its underlying type name and ordered values.
type Enum struct {
	Base
	Underlying string
	Values     []*EnumValue
}

// EnumValue carries the literal name/value of one enumerator.
type EnumValue struct {
	Base
	Literal string
}

// Constant references an underlying static value by its qualified name.
type Constant struct {
	Base
	TypeName string
}

// Container is one STL container instantiation. Identity is the
// (container kind, template args) tuple; the registry holds each distinct
// tuple exactly once, in first-seen order.
type Container struct {
	Base
	Container string   // vector, map, set, unordered_map, unordered_set
	Args      []string // ordered template argument type names
}

// NewContainer creates a registry entry for one container instantiation.
// The node name is the combined template-argument token, mirroring how the
// instantiation is addressed in the generated documents.
func NewContainer(kind string, args []string, parent *Base) *Container {
	c := &Container{
		Base: Base{
			Kind:          KindContainer,
			Parent:        parent,
			containerKind: kind,
		},
		Container: kind,
		Args:      args,
	}
	c.Name = combineArgs(args)
	c.TaggingName = c.Name
	return c
}

// Key returns the registry identity of the instantiation.
func (c *Container) Key() string {
	return c.Container + "<" + strings.Join(c.Args, ", ") + ">"
}

// DisplayName derives a readable name for the instantiation, e.g.
// vector<int> -> IntList, map<string, float> -> StringFloatMap.
func (c *Container) DisplayName() string {
	combined := combineArgs(c.Args)
	switch c.Container {
	case "vector":
		return combined + "List"
	case "map":
		return combined + "Map"
	case "set":
		return combined + "Set"
	case "unordered_map":
		return combined + "UnorderedMap"
	case "unordered_set":
		return combined + "UnorderedSet"
	default:
		return c.Container + combined
	}
}

// combineArgs folds template argument spellings into a single identifier
// token: "int, float" -> "IntFloat", "std::string" -> "String".
func combineArgs(args []string) string {
	var b strings.Builder
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		arg = strings.ReplaceAll(arg, "std::", "")
		arg = strings.ReplaceAll(arg, "::", "__")
		for _, word := range strings.FieldsFunc(arg, func(r rune) bool {
			return r == '_' || r == ' '
		}) {
			b.WriteString(strings.ToUpper(word[:1]))
			if len(word) > 1 {
				b.WriteString(word[1:])
			}
		}
	}
	return b.String()
}

// Walk visits every node of the project in deterministic order: containers,
// then top-level declarations, then namespaces recursively with members
// before nested namespaces.
func (p *Project) Walk(visit func(n *Base)) {
	for _, c := range p.Containers {
		visit(&c.Base)
	}
	walkScope(&p.Scope, visit)
}

func walkScope(s *Scope, visit func(n *Base)) {
	for _, c := range s.Constants {
		visit(&c.Base)
	}
	for _, f := range s.Functions {
		visit(&f.Base)
	}
	for _, e := range s.Enums {
		walkEnum(e, visit)
	}
	for _, c := range s.Classes {
		walkClass(c, visit)
	}
	for _, nested := range s.Namespaces {
		visit(&nested.Base)
		walkScope(&nested.Scope, visit)
	}
}

func walkClass(c *Class, visit func(n *Base)) {
	visit(&c.Base)
	for _, ctor := range c.Constructors {
		visit(&ctor.Base)
	}
	for _, m := range c.Methods {
		visit(&m.Base)
	}
	for _, m := range c.StaticMethods {
		visit(&m.Base)
	}
	for _, p := range c.Properties {
		visit(&p.Base)
	}
	for _, p := range c.StaticProperties {
		visit(&p.Base)
	}
}

func walkEnum(e *Enum, visit func(n *Base)) {
	visit(&e.Base)
	for _, v := range e.Values {
		visit(&v.Base)
	}
}

// Kinds returns the set of construct kinds present in the project, used to
// validate a render context before rendering starts.
func (p *Project) Kinds() map[Kind]bool {
	kinds := map[Kind]bool{KindProject: true}
	p.Walk(func(n *Base) {
		kinds[n.Kind] = true
	})
	return kinds
}
