// Package schema assembles parser matches into a model.FileDefinition.
package schema

import (
	"errors"
	"io"
	"os"

	verr "github.com/nihei9/tlgen/error"
	"github.com/nihei9/tlgen/model"
	"github.com/nihei9/tlgen/parser"
	"github.com/sirupsen/logrus"
)

type Builder struct {
	Types     []parser.Match
	Functions []parser.Match
	Logger    logrus.FieldLogger
}

type section struct {
	typ     model.SectionType
	matches []parser.Match
}

// Build turns the matches into a file definition. It attaches preceding comments to each
// definition and synthesizes the abstract types implied by the concrete types, plus the root
// type.
func (b *Builder) Build() (*model.FileDefinition, error) {
	var concretes []*model.TypeDefinition
	var funcs []*model.FunctionDefinition
	for _, sec := range []section{
		{typ: model.SectionTypeTypes, matches: b.Types},
		{typ: model.SectionTypeFunctions, matches: b.Functions},
	} {
		ts, fs, err := b.buildSection(sec.typ, sec.matches)
		if err != nil {
			return nil, err
		}
		concretes = append(concretes, ts...)
		funcs = append(funcs, fs...)
	}

	types := make([]*model.TypeDefinition, 0, len(concretes)+1)
	types = append(types, concretes...)
	types = append(types, b.synthesizeAbstractTypes(concretes)...)

	if funcs == nil {
		funcs = []*model.FunctionDefinition{}
	}
	return &model.FileDefinition{
		Types:     types,
		Functions: funcs,
	}, nil
}

func (b *Builder) buildSection(sec model.SectionType, matches []parser.Match) ([]*model.TypeDefinition, []*model.FunctionDefinition, error) {
	var types []*model.TypeDefinition
	var funcs []*model.FunctionDefinition
	var pending []*model.Comment
	for _, m := range matches {
		switch m.Kind() {
		case model.LineTypeComment:
			c, ok := m.(*parser.CommentMatch)
			if !ok {
				return nil, nil, strErrUnknownMatchKind.WithDetail("%v match of %T at line %v", m.Kind(), m, m.Line())
			}
			pending = append(pending, &model.Comment{
				CommentText:      c.Text,
				SourceLineNumber: c.Row,
			})
		case model.LineTypeDefinition:
			d, ok := m.(*parser.DefinitionMatch)
			if !ok {
				return nil, nil, strErrUnknownMatchKind.WithDetail("%v match of %T at line %v", m.Kind(), m, m.Line())
			}
			comments := pending
			if comments == nil {
				comments = []*model.Comment{}
			}
			pending = nil

			switch sec {
			case model.SectionTypeTypes:
				supertype := d.TrailingName
				types = append(types, &model.TypeDefinition{
					ClassName:        d.Name,
					Parameters:       genParameters(d.Params),
					ExtendsFrom:      &supertype,
					SourceLine:       d.SourceLine,
					SourceLineNumber: d.Row,
					ClassType:        model.ClassTypeConcrete,
					Comments:         comments,
				})
			case model.SectionTypeFunctions:
				funcs = append(funcs, &model.FunctionDefinition{
					FunctionName:     d.Name,
					Parameters:       genParameters(d.Params),
					ReturnType:       d.TrailingName,
					SourceLine:       d.SourceLine,
					SourceLineNumber: d.Row,
					Comments:         comments,
				})
			default:
				return nil, nil, strErrUnknownSection.WithDetail("%v", sec)
			}
		default:
			return nil, nil, strErrUnknownMatchKind.WithDetail("%v at line %v", m.Kind(), m.Line())
		}
	}

	if len(pending) > 0 && b.Logger != nil {
		b.Logger.WithFields(logrus.Fields{
			"section": sec.String(),
			"line":    pending[0].SourceLineNumber,
			"count":   len(pending),
		}).Debug("dropping comments not followed by a definition")
	}

	return types, funcs, nil
}

func genParameters(params []*parser.Param) []*model.Parameter {
	ps := make([]*model.Parameter, 0, len(params))
	for _, p := range params {
		ps = append(ps, model.NewParameter(p.Name, p.Type.String()))
	}
	return ps
}

// synthesizeAbstractTypes returns the root type followed by one abstract type per distinct
// supertype name in order of first appearance.
func (b *Builder) synthesizeAbstractTypes(concretes []*model.TypeDefinition) []*model.TypeDefinition {
	root := &model.TypeDefinition{
		ClassName: model.RootObjectName,
		Parameters: []*model.Parameter{
			{
				ParamName:    model.ExtraParamName,
				ParamType:    "string",
				Required:     false,
				DefaultValue: "",
			},
		},
		ExtendsFrom:      nil,
		SourceLine:       "",
		SourceLineNumber: model.NoSourceLineNumber,
		ClassType:        model.ClassTypeAbstract,
		Comments:         []*model.Comment{},
	}

	abstracts := []*model.TypeDefinition{root}
	known := map[string]struct{}{
		root.ClassName: {},
	}
	for _, c := range concretes {
		name := c.Supertype()
		if _, ok := known[name]; ok {
			continue
		}
		known[name] = struct{}{}

		rootName := model.RootObjectName
		abstracts = append(abstracts, &model.TypeDefinition{
			ClassName:        name,
			Parameters:       []*model.Parameter{},
			ExtendsFrom:      &rootName,
			SourceLine:       "",
			SourceLineNumber: model.NoSourceLineNumber,
			ClassType:        model.ClassTypeAbstract,
			Comments:         []*model.Comment{},
		})
		if b.Logger != nil {
			b.Logger.WithField("class_name", name).Debug("synthesized an abstract type")
		}
	}
	return abstracts
}

type loadConfig struct {
	skipLines   int
	logger      logrus.FieldLogger
	traceParser bool
}

type LoadOption func(c *loadConfig)

// SkipLines sets the number of header lines skipped at the top of the types section.
func SkipLines(n int) LoadOption {
	return func(c *loadConfig) {
		c.skipLines = n
	}
}

func Logger(l logrus.FieldLogger) LoadOption {
	return func(c *loadConfig) {
		c.logger = l
	}
}

// TraceParser makes the parser log every match. It needs a logger.
func TraceParser() LoadOption {
	return func(c *loadConfig) {
		c.traceParser = true
	}
}

// Load reads a whole schema file and returns its definition.
func Load(src io.Reader, opts ...LoadOption) (*model.FileDefinition, error) {
	c := &loadConfig{
		skipLines: parser.DefaultSkipLines,
	}
	for _, opt := range opts {
		opt(c)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	regions, err := parser.SplitRegions(data)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Infof("skipping `%v` lines from the start of the file", c.skipLines)
	}

	var pOpts []parser.ParserOption
	if c.traceParser && c.logger != nil {
		pOpts = append(pOpts, parser.Logger(c.logger))
	}

	types, err := parser.ParseRegion(regions.Types.SkipLines(c.skipLines), pOpts...)
	if err != nil {
		return nil, err
	}
	funcs, err := parser.ParseRegion(regions.Functions, pOpts...)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		Types:     types,
		Functions: funcs,
		Logger:    c.logger,
	}
	return b.Build()
}

// LoadFile loads the schema file at path. Grammar errors it returns carry the path, so they
// can quote the offending line.
func LoadFile(path string, opts ...LoadOption) (*model.FileDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := Load(f, opts...)
	if err != nil {
		var specErr *verr.SpecError
		if errors.As(err, &specErr) {
			specErr.FilePath = path
			specErr.SourceName = path
		}
		return nil, err
	}
	return def, nil
}
