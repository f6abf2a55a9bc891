// Package model is the active-record layer: a Model binds a table
// definition to a connection and executes fluent queries whose results
// flow through casting, relation loading, and hidden-column stripping.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/executor"
	"github.com/goquent/goquent/runtime/client"
	"github.com/goquent/goquent/runtime/types"
)

// softDeleteColumn marks soft-deleted rows.
const softDeleteColumn = "deleted_at"

// Definition describes a table-backed model.
type Definition struct {
	Table      string
	PrimaryKey string
	Fillable   []string
	Guarded    []string
	Hidden     []string
	Casts      map[string]string
	Timestamps bool
	SoftDelete bool
	// PerPage is the page size Paginate falls back to when the caller
	// supplies none. Zero means no model default.
	PerPage int
}

// Model accumulates one query at a time against its table. Every
// terminal operation resets the accumulated state, so a Model can be
// reused for consecutive queries. It is not safe for concurrent use.
type Model struct {
	def    Definition
	client *client.Client
	exec   *executor.Executor
	b      *builder.Builder

	declared map[string]Relation
	withs    []string

	// err is the first fluent-call error, surfaced when the query runs.
	err error
}

// New binds a definition to a client. PrimaryKey defaults to "id".
func New(c *client.Client, def Definition) *Model {
	if def.PrimaryKey == "" {
		def.PrimaryKey = "id"
	}
	m := &Model{
		def:      def,
		client:   c,
		b:        builder.New(),
		declared: make(map[string]Relation),
	}
	if c != nil {
		m.exec = executor.New(c.DB())
	}
	return m
}

// Table returns the bound table name.
func (m *Model) Table() string {
	return m.def.Table
}

// Builder exposes the underlying statement builder as an escape hatch.
func (m *Model) Builder() *builder.Builder {
	return m.b
}

// Select appends column expressions.
func (m *Model) Select(fields ...string) *Model {
	m.b.Select(fields...)
	return m
}

// Join appends an INNER JOIN clause.
func (m *Model) Join(table, first, operator, second string) *Model {
	m.b.Join(table, first, operator, second, builder.JoinInner)
	return m
}

// LeftJoin appends a LEFT JOIN clause.
func (m *Model) LeftJoin(table, first, operator, second string) *Model {
	m.b.LeftJoin(table, first, operator, second)
	return m
}

// RightJoin appends a RIGHT JOIN clause.
func (m *Model) RightJoin(table, first, operator, second string) *Model {
	m.b.RightJoin(table, first, operator, second)
	return m
}

// Where appends an AND-chained predicate. With one extra argument the
// operator is "="; with two the first is the operator and the second
// the value.
func (m *Model) Where(field string, args ...interface{}) *Model {
	w, err := whereArgs(field, args)
	if err != nil {
		m.fail(err)
		return m
	}
	m.b.Where(field, w.operator, w.value)
	return m
}

// OrWhere appends an OR-chained predicate with the same argument forms
// as Where.
func (m *Model) OrWhere(field string, args ...interface{}) *Model {
	w, err := whereArgs(field, args)
	if err != nil {
		m.fail(err)
		return m
	}
	m.b.OrWhere(field, w.operator, w.value)
	return m
}

// WhereMap appends one equality predicate per entry, in column order.
func (m *Model) WhereMap(conditions types.Row) *Model {
	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.b.Where(k, "=", conditions[k])
	}
	return m
}

// WhereRaw appends an AND-chained raw SQL fragment.
func (m *Model) WhereRaw(raw string) *Model {
	m.b.WhereRaw(raw)
	return m
}

// OrWhereRaw appends an OR-chained raw SQL fragment.
func (m *Model) OrWhereRaw(raw string) *Model {
	m.b.OrWhereRaw(raw)
	return m
}

// WhereIn appends an IN predicate.
func (m *Model) WhereIn(field string, values []interface{}) *Model {
	m.b.WhereIn(field, values)
	return m
}

// WhereNotIn appends a NOT IN predicate.
func (m *Model) WhereNotIn(field string, values []interface{}) *Model {
	m.b.WhereNotIn(field, values)
	return m
}

// WhereNull appends an IS NULL predicate.
func (m *Model) WhereNull(field string) *Model {
	m.b.WhereNull(field)
	return m
}

// WhereNotNull appends an IS NOT NULL predicate.
func (m *Model) WhereNotNull(field string) *Model {
	m.b.WhereNotNull(field)
	return m
}

// OrderBy sets the ORDER BY term.
func (m *Model) OrderBy(field, direction string) *Model {
	m.b.OrderBy(field, direction)
	return m
}

// GroupBy sets the GROUP BY expressions.
func (m *Model) GroupBy(fields ...string) *Model {
	m.b.GroupBy(fields...)
	return m
}

// Limit sets the LIMIT value.
func (m *Model) Limit(limit int) *Model {
	m.b.Limit(limit)
	return m
}

// Offset sets the OFFSET value.
func (m *Model) Offset(offset int) *Model {
	m.b.Offset(offset)
	return m
}

// WithTrashed includes soft-deleted rows in the next query.
func (m *Model) WithTrashed() *Model {
	m.b.WithTrashed()
	return m
}

// WithRelations selects declared relations to eager-load with the next
// query. A single comma-separated argument is split into names.
func (m *Model) WithRelations(names ...string) *Model {
	if len(names) == 1 && strings.Contains(names[0], ",") {
		names = strings.Split(names[0], ",")
	}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			m.withs = append(m.withs, n)
		}
	}
	return m
}

// fail records the first fluent-call error; it surfaces when the query
// executes.
func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

type whereSpec struct {
	operator string
	value    interface{}
}

func whereArgs(field string, args []interface{}) (whereSpec, error) {
	switch len(args) {
	case 1:
		return whereSpec{operator: "=", value: args[0]}, nil
	case 2:
		op, ok := args[0].(string)
		if !ok {
			return whereSpec{}, fmt.Errorf("where %s: operator must be a string, got %T", field, args[0])
		}
		return whereSpec{operator: op, value: args[1]}, nil
	default:
		return whereSpec{}, fmt.Errorf("where %s: expected a value, or an operator and a value", field)
	}
}
