package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/nihei9/tlgen/model"
	"github.com/nihei9/tlgen/schema"
)

const attrsPrelude = `# Code generated by tlgen. DO NOT EDIT.
# Generator version: %v

from __future__ import annotations

import base64
import decimal
import typing

import attr
`

const attrsClassTemplate = `{{ range .Comments }}# {{ . }}
{{ end }}@attr.s(auto_attribs=True, frozen=True, kw_only=True)
class {{ .Name }}{{ with .Supertype }}({{ . }}){{ end }}:
    __tdlib_type__: typing.ClassVar[str] = {{ quote .Tag }}
{{- with .ReturnType }}
    __tdlib_return_type__: typing.ClassVar[str] = {{ quote . }}
{{- end }}
{{- if .Fields }}
{{ range .Fields }}
    {{ .Name }}: {{ .Type }} = attr.ib({{ .Args }})
{{- end }}
{{- end }}
{{- if .IsRoot }}

    def as_tdlib_json(self) -> typing.Dict[str, typing.Any]:
        result: typing.Dict[str, typing.Any] = {"@type": self.__tdlib_type__}
        for field in attr.fields(type(self)):
            if field.name == {{ quote extraParamName }}:
                continue
            name = field.metadata.get("tdlib_name", field.name)
            result[name] = _as_tdlib_json_value(getattr(self, field.name))
        if self.{{ extraParamName }}:
            result["@extra"] = self.{{ extraParamName }}
        return result
{{- end }}
`

const attrsValueHelper = `def _as_tdlib_json_value(value: typing.Any) -> typing.Any:
    if isinstance(value, RootObject):
        return value.as_tdlib_json()
    if isinstance(value, (list, tuple)):
        return [_as_tdlib_json_value(v) for v in value]
    if isinstance(value, decimal.Decimal):
        return float(value)
    if isinstance(value, bytes):
        return base64.b64encode(value).decode("ascii")
    return value
`

var attrsClassTmpl = template.Must(template.New("class").Funcs(template.FuncMap{
	"quote": strconv.Quote,
	"extraParamName": func() string {
		return model.ExtraParamName
	},
}).Parse(attrsClassTemplate))

// pythonReservedNames can't be used as attribute names of a generated class.
var pythonReservedNames = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
	"self": {},
}

type attrsClass struct {
	Name       string
	Supertype  string
	Tag        string
	ReturnType string
	Comments   []string
	Fields     []*attrsField
	IsRoot     bool
}

type attrsField struct {
	Name string
	Type string
	Args string
}

func genAttrsFields(params []*model.Parameter) []*attrsField {
	fields := make([]*attrsField, 0, len(params))
	for _, p := range params {
		f := &attrsField{
			Name: p.ParamName,
			Type: TranslateType(p.ParamType),
		}
		if _, ok := pythonReservedNames[p.ParamName]; ok {
			f.Name = p.ParamName + "_"
			f.Args = fmt.Sprintf(`metadata={"tdlib_name": %v}`, strconv.Quote(p.ParamName))
		}
		if !p.Required {
			def := "default=" + pythonLiteral(p.DefaultValue)
			if f.Args == "" {
				f.Args = def
			} else {
				f.Args = def + ", " + f.Args
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func pythonLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	}
	return fmt.Sprintf("%v", v)
}

func genComments(comments []*model.Comment) []string {
	cs := make([]string, 0, len(comments))
	for _, c := range comments {
		cs = append(cs, c.CommentText)
	}
	return cs
}

func newTypeClass(t *model.TypeDefinition) *attrsClass {
	return &attrsClass{
		Name:      t.ClassName,
		Supertype: t.Supertype(),
		Tag:       t.ClassName,
		Comments:  genComments(t.Comments),
		Fields:    genAttrsFields(t.Parameters),
		IsRoot:    t.IsRoot(),
	}
}

func newFunctionClass(f *model.FunctionDefinition) *attrsClass {
	return &attrsClass{
		Name:       f.FunctionName,
		Supertype:  model.RootObjectName,
		Tag:        f.FunctionName,
		ReturnType: f.ReturnType,
		Comments:   genComments(f.Comments),
		Fields:     genAttrsFields(f.Parameters),
	}
}

type attrsGenerator struct{}

func (g *attrsGenerator) Name() string {
	return ModeAttrs
}

func (g *attrsGenerator) FileExtension() string {
	return ".py"
}

// Generate emits one frozen attrs class per type followed by one per function. Types are
// ordered so that each class is declared after its base class.
func (g *attrsGenerator) Generate(def *model.FileDefinition) ([]byte, error) {
	types, err := sortTypes(def.Types)
	if err != nil {
		return nil, err
	}
	if len(def.Functions) > 0 {
		if _, ok := def.Root(); !ok {
			return nil, schema.ErrUnknownSupertype.WithDetail("%v extends %v", def.Functions[0].FunctionName, model.RootObjectName)
		}
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, attrsPrelude, Version)
	for _, t := range types {
		b.WriteString("\n\n")
		err := attrsClassTmpl.Execute(&b, newTypeClass(t))
		if err != nil {
			return nil, err
		}
		if t.IsRoot() {
			b.WriteString("\n\n")
			b.WriteString(attrsValueHelper)
		}
	}
	for _, f := range def.Functions {
		b.WriteString("\n\n")
		err := attrsClassTmpl.Execute(&b, newFunctionClass(f))
		if err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}
