package compiler

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var (
	ErrMissingOperationName = errors.New("missing operation name")
	ErrUnknownField         = errors.New("unknown field")
	ErrMissingSelectionSet  = errors.New("missing selection set")
	ErrFragmentNotFound     = errors.New("fragment not found")
	ErrUnknownType          = errors.New("unknown type")
	ErrMissingRootType      = errors.New("missing root type")
)

var _ error = (*Error)(nil)

// Error is a compilation failure. Kind is one of the Err* values above and
// GQLError carries the message and the location of the offending node.
type Error struct {
	Kind     error
	GQLError *gqlerror.Error
}

func (e *Error) Error() string {
	return e.GQLError.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorPosf(kind error, pos *ast.Position, format string, args ...interface{}) *Error {
	var gErr *gqlerror.Error
	switch {
	case pos == nil:
		gErr = gqlerror.Errorf(format, args...)
	case pos.Src == nil:
		gErr = gqlerror.ErrorLocf("", pos.Line, pos.Column, format, args...)
	default:
		gErr = gqlerror.ErrorPosf(pos, format, args...)
	}

	return &Error{
		Kind:     kind,
		GQLError: gErr,
	}
}
