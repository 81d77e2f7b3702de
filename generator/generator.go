// Package generator renders a model.FileDefinition as JSON, YAML, or Python attrs classes.
package generator

import (
	"errors"
	"fmt"

	"github.com/nihei9/tlgen/model"
)

// Version is written into every JSON and YAML document. Bump it when the document shape changes.
const Version = 1

const (
	ModeJSON  = "json"
	ModeYAML  = "yaml"
	ModeAttrs = "attrs"
)

// ErrUnsupportedMode is returned when no generator exists for a requested mode.
var ErrUnsupportedMode = errors.New("unsupported generation mode")

type Generator interface {
	// Name returns the mode the generator implements.
	Name() string

	// FileExtension returns the usual extension of the output, including the leading dot.
	FileExtension() string

	// Generate renders the whole output in memory.
	Generate(def *model.FileDefinition) ([]byte, error)
}

// Modes lists the supported modes.
func Modes() []string {
	return []string{
		ModeJSON,
		ModeYAML,
		ModeAttrs,
	}
}

// New returns the generator for mode.
func New(mode string) (Generator, error) {
	switch mode {
	case ModeJSON:
		return &jsonGenerator{}, nil
	case ModeYAML:
		return &yamlGenerator{}, nil
	case ModeAttrs:
		return &attrsGenerator{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
}
