package schema

import (
	"errors"
	"fmt"
)

// ErrStructural is wrapped by every error reporting a broken internal invariant.
var ErrStructural = errors.New("structural error")

type StructuralError struct {
	message string
	detail  string
}

func newStructuralError(message string) *StructuralError {
	return &StructuralError{
		message: message,
	}
}

func (e *StructuralError) WithDetail(format string, a ...any) *StructuralError {
	return &StructuralError{
		message: e.message,
		detail:  fmt.Sprintf(format, a...),
	}
}

func (e *StructuralError) Error() string {
	if e.detail == "" {
		return fmt.Sprintf("%v: %v", ErrStructural, e.message)
	}
	return fmt.Sprintf("%v: %v: %v", ErrStructural, e.message, e.detail)
}

func (e *StructuralError) Is(target error) bool {
	if target == ErrStructural {
		return true
	}
	t, ok := target.(*StructuralError)
	return ok && t.message == e.message
}

var (
	strErrUnknownSection   = newStructuralError("unknown section")
	strErrUnknownMatchKind = newStructuralError("unknown match kind")
)

// These are reported while ordering a file definition by inheritance.
var (
	ErrDuplicateClassName = newStructuralError("duplicate class name")
	ErrUnknownSupertype   = newStructuralError("unknown supertype")
	ErrInheritanceCycle   = newStructuralError("inheritance cycle")
)
