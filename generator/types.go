package generator

import (
	"fmt"

	"github.com/nihei9/tlgen/parser"
)

// primitiveTypes maps the built-in schema types to Python types. vector is not listed here
// because it takes a type argument.
var primitiveTypes = map[string]string{
	"double": "decimal.Decimal",
	"string": "str",
	"int32":  "int",
	"int53":  "int",
	"int64":  "int",
	"bytes":  "bytes",
	"Bool":   "bool",
}

const sequenceTypeFormat = "typing.Sequence[%v]"

// TranslateType translates a schema type such as vector<int32> to its Python type. A type
// that isn't a schema type expression is returned as it is, so translating a translated
// primitive again changes nothing.
func TranslateType(typ string) string {
	expr, err := parser.ParseTypeExpr(typ)
	if err != nil {
		return typ
	}
	return TranslateTypeExpr(expr)
}

func TranslateTypeExpr(expr *parser.TypeExpr) string {
	if expr.IsContainer() {
		return fmt.Sprintf(sequenceTypeFormat, TranslateTypeExpr(expr.Arg))
	}
	if expr.Arg != nil {
		return expr.String()
	}
	if t, ok := primitiveTypes[expr.Name]; ok {
		return t
	}
	// Any other name refers to a type declared in the schema.
	return expr.Name
}
