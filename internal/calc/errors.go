package calc

import "errors"

// Sentinel errors for expression evaluation.
var (
	ErrSyntax       = errors.New("syntax error")
	ErrUnknownIdent = errors.New("unknown identifier")
	ErrArity        = errors.New("wrong number of arguments")
	ErrDomain       = errors.New("math domain error")
	ErrEmpty        = errors.New("empty expression")
)
