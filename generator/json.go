package generator

import (
	"bytes"
	"encoding/json"

	"github.com/nihei9/tlgen/model"
	"gopkg.in/yaml.v3"
)

// Document is the top-level shape of the JSON and YAML outputs.
type Document struct {
	Version        int                   `json:"__version__" yaml:"__version__"`
	FileDefinition *model.FileDefinition `json:"tl_file_definition" yaml:"tl_file_definition"`
}

func newDocument(def *model.FileDefinition) *Document {
	// Empty sections must be rendered as empty lists, not as null.
	d := &model.FileDefinition{
		Types:     def.Types,
		Functions: def.Functions,
	}
	if d.Types == nil {
		d.Types = []*model.TypeDefinition{}
	}
	if d.Functions == nil {
		d.Functions = []*model.FunctionDefinition{}
	}
	return &Document{
		Version:        Version,
		FileDefinition: d,
	}
}

type jsonGenerator struct{}

func (g *jsonGenerator) Name() string {
	return ModeJSON
}

func (g *jsonGenerator) FileExtension() string {
	return ".json"
}

func (g *jsonGenerator) Generate(def *model.FileDefinition) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	err := enc.Encode(newDocument(def))
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

type yamlGenerator struct{}

func (g *yamlGenerator) Name() string {
	return ModeYAML
}

func (g *yamlGenerator) FileExtension() string {
	return ".yaml"
}

func (g *yamlGenerator) Generate(def *model.FileDefinition) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	err := enc.Encode(newDocument(def))
	if err != nil {
		return nil, err
	}
	err = enc.Close()
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
