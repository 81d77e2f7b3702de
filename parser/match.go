package parser

import (
	"strings"

	"github.com/nihei9/tlgen/model"
)

// Match is one matched line of a region: either a *CommentMatch or a *DefinitionMatch.
type Match interface {
	Kind() model.LineType
	Line() int
}

type CommentMatch struct {
	Text string
	Row  int
}

func (m *CommentMatch) Kind() model.LineType {
	return model.LineTypeComment
}

func (m *CommentMatch) Line() int {
	return m.Row
}

// DefinitionMatch is a type or function declaration. TrailingName is the name following the
// equal sign: the supertype of a type or the return type of a function.
type DefinitionMatch struct {
	Name         string
	Params       []*Param
	TrailingName string
	SourceLine   string
	Row          int
}

func (m *DefinitionMatch) Kind() model.LineType {
	return model.LineTypeDefinition
}

func (m *DefinitionMatch) Line() int {
	return m.Row
}

type Param struct {
	Name string
	Type *TypeExpr
}

// ContainerTypeName is the only type constructor the schema language has.
const ContainerTypeName = "vector"

// TypeExpr is a type name optionally applied to one type argument, as in vector<string>.
type TypeExpr struct {
	Name string
	Arg  *TypeExpr
}

// IsContainer reports whether e denotes a sequence of e.Arg.
func (e *TypeExpr) IsContainer() bool {
	return e.Name == ContainerTypeName && e.Arg != nil
}

func (e *TypeExpr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *TypeExpr) write(b *strings.Builder) {
	b.WriteString(e.Name)
	if e.Arg != nil {
		b.WriteString("<")
		e.Arg.write(b)
		b.WriteString(">")
	}
}
