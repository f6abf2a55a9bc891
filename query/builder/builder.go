// Package builder accumulates a structured description of a not-yet-executed
// SQL statement. A Builder belongs to a single logical request; it is not
// safe for concurrent use and must never be shared between goroutines.
package builder

import (
	"sort"
	"strings"

	"github.com/goquent/goquent/runtime/types"
)

// Action selects which statement skeleton the compiler emits.
type Action string

// Supported actions.
const (
	ActionSelect Action = "select"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionRaw    Action = "raw"
)

// Join kinds.
const (
	JoinInner = "INNER"
	JoinLeft  = "LEFT"
	JoinRight = "RIGHT"
	JoinFull  = "FULL"
)

// Boolean chain tokens between WHERE clauses.
const (
	ChainAnd = "AND"
	ChainOr  = "OR"
)

// Join describes a single JOIN clause. First and Second are the join keys;
// keys without a table qualifier are qualified by the compiler (First with
// the primary table, Second with the joined table).
type Join struct {
	Table    string
	First    string
	Operator string
	Second   string
	Kind     string
}

// Where is one WHERE clause: either a raw SQL fragment (Raw non-empty) or a
// structured predicate. Chain is the boolean token emitted before the clause;
// the compiler omits it for the first clause.
type Where struct {
	Raw      string
	Field    string
	Operator string
	Value    interface{}
	Chain    string
}

// Order is a single ORDER BY term.
type Order struct {
	Field     string
	Direction string
}

// Assignment is an ordered column/value pair used by insert and update.
type Assignment struct {
	Column string
	Value  interface{}
}

// Description is the accumulated state of a not-yet-executed statement.
// Limit and Offset of zero mean "not set".
type Description struct {
	Action      Action
	RawSQL      string
	Select      []string
	Joins       []Join
	Where       []Where
	OrderBy     *Order
	GroupBy     []string
	Limit       int
	Offset      int
	Data        []Assignment
	WithTrashed bool
}

// Builder provides the fluent accumulation API over a Description.
type Builder struct {
	desc Description
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Desc exposes the accumulated description. Callers must treat it as
// read-only; Snapshot returns an independent copy for compilation.
func (b *Builder) Desc() *Description {
	return &b.desc
}

// SetAction sets the statement action.
func (b *Builder) SetAction(a Action) *Builder {
	b.desc.Action = a
	return b
}

// Raw marks the description as a verbatim SQL statement that bypasses
// the compiler entirely.
func (b *Builder) Raw(sql string) *Builder {
	b.desc.Action = ActionRaw
	b.desc.RawSQL = sql
	return b
}

// Select appends column expressions. A single argument containing commas is
// split into individual columns.
func (b *Builder) Select(fields ...string) *Builder {
	b.desc.Select = append(b.desc.Select, splitList(fields)...)
	return b
}

// SetSelect replaces the select list.
func (b *Builder) SetSelect(fields []string) *Builder {
	b.desc.Select = fields
	return b
}

// Join appends a JOIN clause of the given kind.
func (b *Builder) Join(table, first, operator, second, kind string) *Builder {
	if kind == "" {
		kind = JoinInner
	}
	b.desc.Joins = append(b.desc.Joins, Join{
		Table:    table,
		First:    first,
		Operator: operator,
		Second:   second,
		Kind:     kind,
	})
	return b
}

// LeftJoin appends a LEFT JOIN clause.
func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.Join(table, first, operator, second, JoinLeft)
}

// RightJoin appends a RIGHT JOIN clause.
func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.Join(table, first, operator, second, JoinRight)
}

// Where appends an AND-chained structured predicate.
func (b *Builder) Where(field, operator string, value interface{}) *Builder {
	return b.addWhere(Where{Field: field, Operator: operator, Value: value, Chain: ChainAnd})
}

// OrWhere appends an OR-chained structured predicate.
func (b *Builder) OrWhere(field, operator string, value interface{}) *Builder {
	return b.addWhere(Where{Field: field, Operator: operator, Value: value, Chain: ChainOr})
}

// WhereRaw appends an AND-chained raw SQL fragment.
func (b *Builder) WhereRaw(raw string) *Builder {
	return b.addWhere(Where{Raw: raw, Chain: ChainAnd})
}

// OrWhereRaw appends an OR-chained raw SQL fragment.
func (b *Builder) OrWhereRaw(raw string) *Builder {
	return b.addWhere(Where{Raw: raw, Chain: ChainOr})
}

// WhereIn appends an IN predicate over the given values.
func (b *Builder) WhereIn(field string, values []interface{}) *Builder {
	return b.addWhere(Where{Field: field, Operator: "IN", Value: values, Chain: ChainAnd})
}

// WhereNotIn appends a NOT IN predicate over the given values.
func (b *Builder) WhereNotIn(field string, values []interface{}) *Builder {
	return b.addWhere(Where{Field: field, Operator: "NOT IN", Value: values, Chain: ChainAnd})
}

// WhereNull appends an IS NULL predicate.
func (b *Builder) WhereNull(field string) *Builder {
	return b.addWhere(Where{Field: field, Operator: "IS", Value: "NULL", Chain: ChainAnd})
}

// WhereNotNull appends an IS NOT NULL predicate.
func (b *Builder) WhereNotNull(field string) *Builder {
	return b.addWhere(Where{Field: field, Operator: "IS NOT", Value: "NULL", Chain: ChainAnd})
}

// HasWhere reports whether any WHERE clause has been recorded.
func (b *Builder) HasWhere() bool {
	return len(b.desc.Where) > 0
}

// PopWhere removes the most recently added WHERE clause. Pagination uses
// this to drop the transient soft-delete filter between the data fetch and
// the count pass.
func (b *Builder) PopWhere() *Builder {
	if n := len(b.desc.Where); n > 0 {
		b.desc.Where = b.desc.Where[:n-1]
	}
	return b
}

// ClearWhere removes every WHERE clause.
func (b *Builder) ClearWhere() *Builder {
	b.desc.Where = nil
	return b
}

// OrderBy sets the single ORDER BY term. Directions other than DESC are
// normalized to ASC at compile time.
func (b *Builder) OrderBy(field, direction string) *Builder {
	b.desc.OrderBy = &Order{Field: field, Direction: direction}
	return b
}

// GroupBy sets the GROUP BY expressions. A single argument containing
// commas is split into individual expressions.
func (b *Builder) GroupBy(fields ...string) *Builder {
	b.desc.GroupBy = splitList(fields)
	return b
}

// Limit sets the LIMIT value.
func (b *Builder) Limit(limit int) *Builder {
	b.desc.Limit = limit
	return b
}

// Offset sets the OFFSET value.
func (b *Builder) Offset(offset int) *Builder {
	b.desc.Offset = offset
	return b
}

// ClearLimit clears both LIMIT and OFFSET.
func (b *Builder) ClearLimit() *Builder {
	b.desc.Limit = 0
	b.desc.Offset = 0
	return b
}

// WithTrashed suppresses the automatic soft-delete filter.
func (b *Builder) WithTrashed() *Builder {
	b.desc.WithTrashed = true
	return b
}

// SetData replaces the assignment list with the contents of row. Columns
// are ordered lexicographically so the compiled SQL is deterministic.
func (b *Builder) SetData(row types.Row) *Builder {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.desc.Data = make([]Assignment, 0, len(keys))
	for _, k := range keys {
		b.desc.Data = append(b.desc.Data, Assignment{Column: k, Value: row[k]})
	}
	return b
}

// AddAssignment appends a single column assignment, preserving order.
func (b *Builder) AddAssignment(column string, value interface{}) *Builder {
	b.desc.Data = append(b.desc.Data, Assignment{Column: column, Value: value})
	return b
}

// Snapshot returns an independent copy of the description. Mutating the
// builder afterwards does not affect the snapshot.
func (b *Builder) Snapshot() Description {
	d := b.desc
	d.Select = append([]string(nil), b.desc.Select...)
	d.Joins = append([]Join(nil), b.desc.Joins...)
	d.Where = append([]Where(nil), b.desc.Where...)
	d.GroupBy = append([]string(nil), b.desc.GroupBy...)
	d.Data = append([]Assignment(nil), b.desc.Data...)
	if b.desc.OrderBy != nil {
		o := *b.desc.OrderBy
		d.OrderBy = &o
	}
	return d
}

// Reset clears all accumulated state.
func (b *Builder) Reset() *Builder {
	b.desc = Description{}
	return b
}

func (b *Builder) addWhere(w Where) *Builder {
	b.desc.Where = append(b.desc.Where, w)
	return b
}

// splitList flattens the field arguments, splitting a lone comma-separated
// string into its parts.
func splitList(fields []string) []string {
	if len(fields) == 1 && strings.Contains(fields[0], ",") {
		parts := strings.Split(fields[0], ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fields
}
