package style

import "github.com/wukongiii/embindgen/internal/model"

// renderedKinds lists, per backend, the construct kinds the backend renders
// and the template variants its dispatch requires (the empty name is the
// rule's single default template). Kinds absent here are composed
// structurally by the backend and need no rule.
var renderedKinds = map[string]map[model.Kind][]string{
	BackendEmbind: {
		model.KindProject:        {"header", "footer"},
		model.KindNamespace:      {"open", "close"},
		model.KindClass:          {"derived", "non_derived"},
		model.KindStruct:         {"derived", "non_derived"},
		model.KindEnum:           {""},
		model.KindEnumValue:      {""},
		model.KindFunction:       {"overloaded", "non_overloaded"},
		model.KindMethod:         {"overloaded", "non_overloaded"},
		model.KindStaticMethod:   {"overloaded", "non_overloaded"},
		model.KindConstructor:    {""},
		model.KindProperty:       {""},
		model.KindStaticProperty: {""},
		model.KindConstant:       {""},
		model.KindContainer:      {""},
	},
	BackendDTS: {
		model.KindProject:   {"header", "footer"},
		model.KindNamespace: {"open", "close"},
		model.KindClass:     {""},
		model.KindStruct:    {""},
		model.KindEnum:      {""},
		model.KindFunction:  {""},
		model.KindConstant:  {""},
		model.KindContainer: {""},
	},
	BackendPreJS: {
		model.KindProject:   {"header", "footer"},
		model.KindNamespace: {"open", "close"},
		model.KindClass:     {""},
		model.KindStruct:    {""},
		model.KindEnum:      {""},
		model.KindFunction:  {""},
		model.KindConstant:  {""},
		model.KindContainer: {""},
	},
}

// Default returns the built-in style sheet. It reproduces the reference
// embind registration format together with the matching d.ts and pre.js
// projections; a loaded sheet overrides it by deep merge.
func Default() *Sheet {
	return &Sheet{
		Mangling:    model.DefaultMangling(),
		IndentSpace: 4,
		Styles: map[string]map[model.Kind]Rule{
			BackendEmbind: embindRules(),
			BackendDTS:    dtsRules(),
			BackendPreJS:  prejsRules(),
		},
	}
}

func embindRules() map[model.Kind]Rule {
	return map[model.Kind]Rule{
		model.KindProject: {
			Templates: map[string]string{
				"header": `#include <emscripten/bind.h>
{{range .Includes}}#include "{{.}}"
{{end}}
using namespace emscripten;

EMSCRIPTEN_BINDINGS({{.ModuleName}}) {`,
				"footer": `}`,
			},
		},
		model.KindNamespace: {
			Templates: map[string]string{
				"open":  `{ using namespace {{.Name}};`,
				"close": `} // namespace {{.Name}}`,
			},
		},
		model.KindClass: {
			TaggingType: "class_",
			Templates: map[string]string{
				"non_derived": `{{.Prefix}}{{.TaggingType}}<{{.TypeName}}>("{{.MangledName}}"){{.Suffix}}`,
				"derived":     `{{.Prefix}}{{.TaggingType}}<{{.TypeName}}, base<{{.BaseClassName}}>>("{{.MangledName}}"){{.Suffix}}`,
			},
		},
		model.KindStruct: {
			TaggingType: "class_",
			Templates: map[string]string{
				"non_derived": `{{.Prefix}}{{.TaggingType}}<{{.TypeName}}>("{{.MangledName}}"){{.Suffix}}`,
				"derived":     `{{.Prefix}}{{.TaggingType}}<{{.TypeName}}, base<{{.BaseClassName}}>>("{{.MangledName}}"){{.Suffix}}`,
			},
		},
		model.KindEnum: {
			TaggingType: "enum_",
			Template:    `{{.Prefix}}{{.TaggingType}}<{{.TypeName}}>("{{.MangledName}}"){{.Suffix}}`,
		},
		model.KindEnumValue: {
			TaggingType: "value",
			Template:    `.{{.TaggingType}}("{{.TaggingName}}", {{.TypeName}}::{{.Name}})`,
		},
		model.KindFunction: {
			TaggingType: "function",
			Suffix:      ";",
			Templates: map[string]string{
				"non_overloaded": `{{.Prefix}}{{.TaggingType}}("{{.MangledName}}", &{{.FullName}}{{.PointerPolicy}}){{.Suffix}}`,
				"overloaded":     `{{.Prefix}}{{.TaggingType}}("{{.MangledName}}", select_overload<{{.OverloadType}}>(&{{.FullName}}){{.PointerPolicy}}){{.Suffix}}`,
			},
		},
		model.KindMethod: {
			TaggingType: "function",
			Prefix:      ".",
			Templates: map[string]string{
				"non_overloaded": `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", &{{.FullName}}{{.PointerPolicy}}){{.Suffix}}`,
				"overloaded":     `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", select_overload<{{.OverloadType}}>(&{{.FullName}}){{.PointerPolicy}}){{.Suffix}}`,
			},
		},
		model.KindStaticMethod: {
			TaggingType: "class_function",
			Prefix:      ".",
			Templates: map[string]string{
				"non_overloaded": `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", &{{.FullName}}{{.PointerPolicy}}){{.Suffix}}`,
				"overloaded":     `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", select_overload<{{.OverloadType}}>(&{{.FullName}}){{.PointerPolicy}}){{.Suffix}}`,
			},
		},
		model.KindConstructor: {
			TaggingType: "constructor",
			Prefix:      ".",
			Template:    `{{.Prefix}}{{.TaggingType}}<{{.Args}}>()`,
		},
		model.KindProperty: {
			TaggingType: "property",
			Prefix:      ".",
			Template:    `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", &{{.FullName}}, {{.ReturnValuePolicy}})`,
		},
		model.KindStaticProperty: {
			TaggingType: "class_property",
			Prefix:      ".",
			Template:    `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", &{{.FullName}})`,
		},
		model.KindConstant: {
			TaggingType: "constant",
			Suffix:      ";",
			Template:    `{{.Prefix}}{{.TaggingType}}("{{.TaggingName}}", {{.FullName}}){{.Suffix}}`,
		},
		model.KindContainer: {
			Suffix:   ";",
			Template: `{{.Prefix}}register_{{.TaggingType}}<{{.TemplateArgs}}>("{{.MangledName}}"){{.Suffix}}`,
		},
	}
}

func dtsRules() map[model.Kind]Rule {
	// classes with hoisted nested types project as an intersection of the
	// constructor type and a block of the nested declarations
	leaf := Rule{
		Template: `{{.Name}}: typeof {{.ModuleName}}.prototype.{{.MangledName}};`,
		Templates: map[string]string{
			"branch":       `{{.Name}}: typeof {{.ModuleName}}.prototype.{{.MangledName}} & {`,
			"branch_close": `};`,
		},
	}
	return map[model.Kind]Rule{
		model.KindProject: {
			Templates: map[string]string{
				"header": `// Type declarations for the {{.ModuleName}} binding table.
export interface {{.ModuleName}}Exports {`,
				"footer": `}`,
			},
		},
		model.KindNamespace: {
			Templates: map[string]string{
				"open":  `{{.Name}}: {`,
				"close": `};`,
			},
		},
		model.KindClass:  leaf,
		model.KindStruct: leaf,
		model.KindEnum:   leaf,
		model.KindFunction: {
			Template: `{{.Name}}: typeof {{.ModuleName}}.prototype.{{.MangledName}};`,
		},
		model.KindConstant: {
			Template: `{{.Name}}: typeof {{.ModuleName}}.prototype.{{.Name}};`,
		},
		model.KindContainer: {
			Template: `{{.DisplayName}}: typeof {{.ModuleName}}.prototype.{{.MangledName}};`,
		},
	}
}

func prejsRules() map[model.Kind]Rule {
	// classes with hoisted nested types merge the binding-table entry with
	// the nested structure via Object.assign
	leaf := Rule{
		Template: `{{.Name}}: Module['{{.MangledName}}'],`,
		Templates: map[string]string{
			"branch":       `{{.Name}}: Object.assign(Module['{{.MangledName}}'], {`,
			"branch_close": `}),`,
		},
	}
	return map[model.Kind]Rule{
		model.KindProject: {
			Templates: map[string]string{
				"header": `Module['onRuntimeInitialized'] = function() {
Module['{{.ModuleName}}'] = {`,
				"footer": `};
};`,
			},
		},
		model.KindNamespace: {
			Templates: map[string]string{
				"open":  `{{.Name}}: {`,
				"close": `},`,
			},
		},
		model.KindClass:  leaf,
		model.KindStruct: leaf,
		model.KindEnum:   leaf,
		model.KindFunction: {
			Template: `{{.Name}}: Module['{{.MangledName}}'],`,
		},
		model.KindConstant: {
			Template: `{{.Name}}: Module['{{.Name}}'],`,
		},
		model.KindContainer: {
			Template: `{{.DisplayName}}: Module['{{.MangledName}}'],`,
		},
	}
}
