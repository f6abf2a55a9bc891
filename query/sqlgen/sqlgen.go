// Package sqlgen compiles query descriptions into SQL text with ordered,
// positional bind arguments. It targets the MySQL placeholder syntax (`?`),
// which the sqlite3 driver shares.
package sqlgen

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goquent/goquent/query/builder"
)

// Query is a compiled SQL statement together with its bind arguments.
// Args are ordered exactly as their placeholders appear in SQL:
// SET values, then WHERE values, then LIMIT, then OFFSET.
type Query struct {
	SQL  string
	Args []interface{}
}

// Generate compiles desc against the given primary table. A raw description
// bypasses compilation entirely and is returned verbatim with no arguments.
func Generate(table string, desc *builder.Description) (*Query, error) {
	if desc.RawSQL != "" {
		return &Query{SQL: desc.RawSQL}, nil
	}
	if table == "" {
		return nil, ErrNoTable
	}

	var (
		sb   strings.Builder
		args []interface{}
	)

	switch desc.Action {
	case builder.ActionSelect:
		sb.WriteString("SELECT ")
		if len(desc.Select) > 0 {
			sb.WriteString(strings.Join(desc.Select, ", "))
		} else {
			sb.WriteString(table + ".*")
			for _, j := range desc.Joins {
				sb.WriteString(", " + j.Table + ".*")
			}
		}
		sb.WriteString(" FROM " + table)
	case builder.ActionInsert:
		if len(desc.Data) == 0 {
			return nil, fmt.Errorf("insert: %w", ErrNoData)
		}
		sb.WriteString("INSERT INTO " + table)
	case builder.ActionUpdate:
		if len(desc.Data) == 0 {
			return nil, fmt.Errorf("update: %w", ErrNoData)
		}
		if len(desc.Where) == 0 {
			return nil, fmt.Errorf("update: %w", ErrNoWhere)
		}
		sb.WriteString("UPDATE " + table)
	case builder.ActionDelete:
		if len(desc.Where) == 0 {
			return nil, fmt.Errorf("delete: %w", ErrNoWhere)
		}
		sb.WriteString("DELETE FROM " + table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, desc.Action)
	}

	if desc.Action == builder.ActionInsert || desc.Action == builder.ActionUpdate {
		sb.WriteString(" SET ")
		for i, a := range desc.Data {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch v := a.Value.(type) {
			case nil:
				// NULL is inlined; `= ?` cannot express it portably.
				sb.WriteString(a.Column + " = NULL")
			case bool:
				// Booleans are inlined as 1/0 to avoid driver-specific
				// boolean encodings.
				if v {
					sb.WriteString(a.Column + " = 1")
				} else {
					sb.WriteString(a.Column + " = 0")
				}
			default:
				sb.WriteString(a.Column + " = ?")
				args = append(args, a.Value)
			}
		}
	}

	for _, j := range desc.Joins {
		first := qualify(j.First, table)
		second := qualify(j.Second, j.Table)
		kind := j.Kind
		if kind == "" {
			kind = builder.JoinInner
		}
		fmt.Fprintf(&sb, " %s JOIN %s ON %s %s %s", kind, j.Table, first, j.Operator, second)
	}

	if len(desc.Where) > 0 {
		sb.WriteString(" WHERE")
		for i, w := range desc.Where {
			if i > 0 {
				sb.WriteString(" " + w.Chain)
			}
			if w.Raw != "" {
				sb.WriteString(" " + w.Raw)
				continue
			}
			field := qualify(w.Field, table)
			switch w.Operator {
			case "IN", "NOT IN":
				values := toValues(w.Value)
				placeholders := make([]string, len(values))
				for i := range values {
					placeholders[i] = "?"
				}
				fmt.Fprintf(&sb, " %s %s (%s)", field, w.Operator, strings.Join(placeholders, ", "))
				args = append(args, values...)
			case "IS", "IS NOT":
				// Rendered inline; used exclusively for the NULL literal.
				fmt.Fprintf(&sb, " %s %s %v", field, w.Operator, w.Value)
			default:
				fmt.Fprintf(&sb, " %s %s ?", field, w.Operator)
				args = append(args, w.Value)
			}
		}
	}

	if len(desc.GroupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(desc.GroupBy, ", "))
	}

	if o := desc.OrderBy; o != nil {
		direction := o.Direction
		if direction != "DESC" {
			direction = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", qualify(o.Field, table), direction)
	}

	if desc.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, desc.Limit)
		if desc.Offset > 0 {
			sb.WriteString(" OFFSET ?")
			args = append(args, desc.Offset)
		}
	}

	return &Query{SQL: sb.String(), Args: args}, nil
}

// qualify prefixes field with table when it carries no qualifier of its own.
func qualify(field, table string) string {
	if strings.Contains(field, ".") {
		return field
	}
	return table + "." + field
}

// toValues flattens an IN-list value into []interface{}, accepting any
// slice or array kind.
func toValues(value interface{}) []interface{} {
	if vs, ok := value.([]interface{}); ok {
		return vs
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []interface{}{value}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
