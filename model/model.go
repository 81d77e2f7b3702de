// Package model defines the intermediate representation of a TL schema file.
// Every value is built once by the schema assembler and only read afterwards.
package model

import "fmt"

const (
	// RootObjectName is the name of the synthetic type every abstract type extends.
	RootObjectName = "RootObject"

	// ExtraParamName is the root type's free-form extra data field.
	ExtraParamName = "_extra"

	// NoSourceLineNumber marks entries that don't come from the schema file.
	NoSourceLineNumber = -1
)

// LineType classifies a matched line.
type LineType string

const (
	LineTypeComment    = LineType("comment")
	LineTypeDefinition = LineType("definition")
)

func (t LineType) String() string {
	return string(t)
}

// ClassType tells whether a type is declared in the schema or implied by its subtypes.
type ClassType string

const (
	ClassTypeConcrete = ClassType("concrete")
	ClassTypeAbstract = ClassType("abstract")
)

func (t ClassType) String() string {
	return string(t)
}

func (t ClassType) MarshalText() ([]byte, error) {
	switch t {
	case ClassTypeConcrete, ClassTypeAbstract:
		return []byte(t), nil
	}
	return nil, fmt.Errorf("invalid class type: %q", string(t))
}

// SectionType identifies the two regions of a schema file.
type SectionType string

const (
	SectionTypeTypes     = SectionType("types")
	SectionTypeFunctions = SectionType("functions")
)

func (t SectionType) String() string {
	return string(t)
}

type Parameter struct {
	ParamName string `json:"param_name" yaml:"param_name"`
	ParamType string `json:"param_type" yaml:"param_type"`

	// Only the root type's extra data field uses these two.
	Required     bool `json:"required" yaml:"required"`
	DefaultValue any  `json:"default_value" yaml:"default_value"`
}

func NewParameter(name, typ string) *Parameter {
	return &Parameter{
		ParamName: name,
		ParamType: typ,
		Required:  true,
	}
}

type Comment struct {
	CommentText      string `json:"comment_text" yaml:"comment_text"`
	SourceLineNumber int    `json:"source_line_number" yaml:"source_line_number"`
}

type TypeDefinition struct {
	ClassName  string       `json:"class_name" yaml:"class_name"`
	Parameters []*Parameter `json:"parameters" yaml:"parameters"`

	// ExtendsFrom is nil only for the root type.
	ExtendsFrom      *string    `json:"extends_from" yaml:"extends_from"`
	SourceLine       string     `json:"source_line" yaml:"source_line"`
	SourceLineNumber int        `json:"source_line_number" yaml:"source_line_number"`
	ClassType        ClassType  `json:"class_type" yaml:"class_type"`
	Comments         []*Comment `json:"comments" yaml:"comments"`
}

// IsRoot reports whether t is the synthetic root type.
func (t *TypeDefinition) IsRoot() bool {
	return t.ExtendsFrom == nil
}

// Supertype returns the name of the type t extends, or "" for the root.
func (t *TypeDefinition) Supertype() string {
	if t.ExtendsFrom == nil {
		return ""
	}
	return *t.ExtendsFrom
}

// Depth is the level of t in the hierarchy: 0 for the root, 1 for abstract types,
// and 2 for concrete types.
func (t *TypeDefinition) Depth() int {
	switch {
	case t.IsRoot():
		return 0
	case t.ClassType == ClassTypeAbstract:
		return 1
	}
	return 2
}

type FunctionDefinition struct {
	FunctionName     string       `json:"function_name" yaml:"function_name"`
	Parameters       []*Parameter `json:"parameters" yaml:"parameters"`
	ReturnType       string       `json:"return_type" yaml:"return_type"`
	SourceLine       string       `json:"source_line" yaml:"source_line"`
	SourceLineNumber int          `json:"source_line_number" yaml:"source_line_number"`
	Comments         []*Comment   `json:"comments" yaml:"comments"`
}

// FileDefinition is everything the generator needs to know about a schema file.
type FileDefinition struct {
	Types     []*TypeDefinition     `json:"types" yaml:"types"`
	Functions []*FunctionDefinition `json:"functions" yaml:"functions"`
}

// LookupType returns the type named name.
func (d *FileDefinition) LookupType(name string) (*TypeDefinition, bool) {
	for _, t := range d.Types {
		if t.ClassName == name {
			return t, true
		}
	}
	return nil, false
}

// Root returns the synthetic root type.
func (d *FileDefinition) Root() (*TypeDefinition, bool) {
	for _, t := range d.Types {
		if t.IsRoot() {
			return t, true
		}
	}
	return nil, false
}
