// Package decl defines the declaration descriptors handed to the model
// builder by an external C++ semantic analyzer, and a loader for analyzer
// dumps in YAML or JSON form.
package decl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrParseFailure marks a failure reported by the external analyzer or a
// malformed declaration dump. It is always fatal for the whole run.
var ErrParseFailure = errors.New("parse failure")

// Kind represents the category of a declaration.
type Kind string

const (
	KindNamespace   Kind = "namespace"
	KindClass       Kind = "class"
	KindStruct      Kind = "struct"
	KindEnum        Kind = "enum"
	KindEnumValue   Kind = "enum_value"
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindDestructor  Kind = "destructor"
	KindField       Kind = "field"
	KindVariable    Kind = "variable"
	KindTypedef     Kind = "typedef"
)

// Visibility represents a member access specifier. An empty value means
// public (namespace-scope declarations carry no specifier).
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Decl is one declaration descriptor. Only the fields relevant to a kind are
// populated; Children carries the ordered nested declarations of scopes.
type Decl struct {
	Kind       Kind       `yaml:"kind" json:"kind"`
	Name       string     `yaml:"name" json:"name"`
	Visibility Visibility `yaml:"visibility,omitempty" json:"visibility,omitempty"`

	// Definition is true for full definitions, false for forward declarations.
	Definition bool `yaml:"definition,omitempty" json:"definition,omitempty"`

	Type       string   `yaml:"type,omitempty" json:"type,omitempty"`             // declared/canonical type spelling
	ReturnType string   `yaml:"return_type,omitempty" json:"return_type,omitempty"`
	Params     []string `yaml:"params,omitempty" json:"params,omitempty"`         // ordered canonical param type spellings
	BaseClass  string   `yaml:"base_class,omitempty" json:"base_class,omitempty"`
	Underlying string   `yaml:"underlying,omitempty" json:"underlying,omitempty"` // enum underlying type
	Value      string   `yaml:"value,omitempty" json:"value,omitempty"`           // enum value literal

	Static    bool `yaml:"static,omitempty" json:"static,omitempty"`
	Const     bool `yaml:"const,omitempty" json:"const,omitempty"`       // const variable, or const-qualified receiver
	Anonymous bool `yaml:"anonymous,omitempty" json:"anonymous,omitempty"`
	Template  bool `yaml:"template,omitempty" json:"template,omitempty"`

	Children []Decl `yaml:"children,omitempty" json:"children,omitempty"`
}

// File is one analyzer dump, usually corresponding to a single header.
type File struct {
	Header string `yaml:"header" json:"header"` // include path relative to the project root
	Decls  []Decl `yaml:"decls" json:"decls"`
}

// LoadFile loads a declaration dump from a file (YAML or JSON based on
// extension). Decode failures are reported as ErrParseFailure.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrParseFailure, "reading declaration file %s: %v", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var f File
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrapf(ErrParseFailure, "parsing YAML declarations %s: %v", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrapf(ErrParseFailure, "parsing JSON declarations %s: %v", path, err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &f); err != nil {
			if err := json.Unmarshal(data, &f); err != nil {
				return nil, errors.Wrapf(ErrParseFailure, "unable to parse %s as YAML or JSON", path)
			}
		}
	}

	return &f, nil
}

// IsPublic reports whether the declaration survives visibility filtering.
func (d *Decl) IsPublic() bool {
	return d.Visibility == "" || d.Visibility == Public
}
