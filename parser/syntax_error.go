package parser

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	// lexical errors
	synErrInvalidToken = newSyntaxError("invalid token")

	// syntax errors
	synErrNoDefinitionName = newSyntaxError("a definition must start with a name")
	synErrNoColon          = newSyntaxError("a parameter name must be followed by a colon")
	synErrNoParamType      = newSyntaxError("a parameter type is missing after the colon")
	synErrUnclosedTypeArg  = newSyntaxError("a type argument must be closed by >")
	synErrNoEquals         = newSyntaxError("the equal sign is missing after the parameters")
	synErrNoTrailingName   = newSyntaxError("a type name is missing after the equal sign")
	synErrNoSemicolon      = newSyntaxError("the semicolon is missing at the end of a definition")
	synErrTrailingTokens   = newSyntaxError("unexpected token after a type expression")
	synErrExtraSeparator   = newSyntaxError("the functions section separator appears more than once")
)
