package model

import (
	"errors"
	"fmt"
)

// ErrZeroPerPage is returned by Paginate when no usable page size is
// configured anywhere.
var ErrZeroPerPage = errors.New("pagination requires a positive per-page size")

// RelationError reports a relation that could not be loaded.
type RelationError struct {
	Relation string
	// Field is the correlation field missing from the rows. Empty when
	// the relation itself is not defined.
	Field string
	// Related is true when the field was missing (or null) on the
	// related rows rather than the parent rows. A scope that selects
	// the key away, or a related model hiding it, triggers this.
	Related bool
}

func (e *RelationError) Error() string {
	switch {
	case e.Field != "" && e.Related:
		return fmt.Sprintf("relation %s: related rows have no %s field", e.Relation, e.Field)
	case e.Field != "":
		return fmt.Sprintf("relation %s: parent rows have no %s field", e.Relation, e.Field)
	default:
		return fmt.Sprintf("relation %s is not defined", e.Relation)
	}
}
