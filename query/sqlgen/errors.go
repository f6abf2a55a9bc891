package sqlgen

import "errors"

// Validation errors raised before any I/O happens.
var (
	ErrNoTable       = errors.New("table name is not defined")
	ErrNoData        = errors.New("statement requires data")
	ErrNoWhere       = errors.New("statement requires a where clause")
	ErrInvalidAction = errors.New("invalid query action")
)
