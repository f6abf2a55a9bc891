package model

import (
	"context"
	"strconv"
	"time"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/cast"
	"github.com/goquent/goquent/query/columns"
	"github.com/goquent/goquent/query/sqlgen"
	"github.com/goquent/goquent/runtime/types"
)

const timestampLayout = "2006-01-02 15:04:05"

func nowStamp() string {
	return time.Now().Format(timestampLayout)
}

// applySoftFilter appends the deleted_at IS NULL clause unless the
// model does not soft-delete or trashed rows were requested.
func (m *Model) applySoftFilter() bool {
	if m.def.SoftDelete && !m.b.Desc().WithTrashed {
		m.b.WhereNull(softDeleteColumn)
		return true
	}
	return false
}

// Get runs the accumulated query and returns the processed rows.
func (m *Model) Get(ctx context.Context) ([]types.Row, error) {
	m.applySoftFilter()
	m.b.SetAction(builder.ActionSelect)
	out, err := m.process(ctx, true)
	if err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// First runs the accumulated query with LIMIT 1 and returns the single
// row, or nil when nothing matched.
func (m *Model) First(ctx context.Context) (types.Row, error) {
	m.b.Limit(1)
	rows, err := m.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Find fetches a single row by primary key, replacing any accumulated
// WHERE clauses.
func (m *Model) Find(ctx context.Context, id interface{}) (types.Row, error) {
	m.b.ClearWhere()
	m.b.Where(m.def.PrimaryKey, "=", id)
	return m.First(ctx)
}

// Count runs the accumulated query as SELECT COUNT(*) and returns the
// total. Selected relations are dropped: the count row carries no
// correlation fields to attach them to.
func (m *Model) Count(ctx context.Context) (int64, error) {
	m.withs = nil
	m.b.SetSelect([]string{"COUNT(*) AS total"})
	m.applySoftFilter()
	m.b.SetAction(builder.ActionSelect)
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	if len(out.Rows) == 0 {
		return 0, nil
	}
	return toInt64(out.Rows[0]["total"]), nil
}

// Insert writes one row and returns its auto-increment id. Columns are
// filtered through the fillable and guarded lists and cast outbound;
// created_at is stamped when the model keeps timestamps. An insert
// whose columns are all filtered out is a no-op.
func (m *Model) Insert(ctx context.Context, data types.Row) (int64, error) {
	projected := columns.Project(data, m.def.Fillable, m.def.Guarded)
	if len(projected) == 0 {
		m.reset()
		return 0, nil
	}
	cast.Apply(projected, m.def.Casts, cast.Outbound)
	m.b.SetData(projected)
	if m.def.Timestamps {
		m.b.AddAssignment("created_at", nowStamp())
	}
	m.b.SetAction(builder.ActionInsert)
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	return out.InsertID, nil
}

// Update writes the given columns to every matching row and returns
// the affected count. A WHERE clause must be accumulated before the
// soft-delete filter counts as one; updated_at is stamped when the
// model keeps timestamps.
func (m *Model) Update(ctx context.Context, data types.Row) (int64, error) {
	projected := columns.Project(data, m.def.Fillable, m.def.Guarded)
	if len(projected) == 0 {
		m.reset()
		return 0, nil
	}
	if !m.b.HasWhere() {
		m.reset()
		return 0, sqlgen.ErrNoWhere
	}
	cast.Apply(projected, m.def.Casts, cast.Outbound)
	m.b.SetData(projected)
	m.applySoftFilter()
	if m.def.Timestamps {
		m.b.AddAssignment("updated_at", nowStamp())
	}
	m.b.SetAction(builder.ActionUpdate)
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	return out.Affected, nil
}

// Delete removes matching rows. Soft-deleting models stamp deleted_at
// instead of deleting; others issue a real DELETE. A WHERE clause is
// required either way.
func (m *Model) Delete(ctx context.Context) (int64, error) {
	if !m.b.HasWhere() {
		m.reset()
		return 0, sqlgen.ErrNoWhere
	}
	if m.def.SoftDelete {
		m.applySoftFilter()
		m.b.SetData(types.Row{softDeleteColumn: nowStamp()})
		m.b.SetAction(builder.ActionUpdate)
	} else {
		m.b.SetAction(builder.ActionDelete)
	}
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	return out.Affected, nil
}

// ForceDelete issues a real DELETE regardless of soft-delete mode.
func (m *Model) ForceDelete(ctx context.Context) (int64, error) {
	if !m.b.HasWhere() {
		m.reset()
		return 0, sqlgen.ErrNoWhere
	}
	m.b.SetAction(builder.ActionDelete)
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	return out.Affected, nil
}

// Restore clears deleted_at on matching soft-deleted rows. The
// soft-delete filter is not applied, otherwise the trashed rows could
// never match.
func (m *Model) Restore(ctx context.Context) (int64, error) {
	if !m.b.HasWhere() {
		m.reset()
		return 0, sqlgen.ErrNoWhere
	}
	m.b.SetData(types.Row{softDeleteColumn: nil})
	m.b.SetAction(builder.ActionUpdate)
	out, err := m.process(ctx, true)
	if err != nil {
		return 0, err
	}
	return out.Affected, nil
}

// Raw executes a verbatim statement through the query path. Unlike a
// plain escape hatch that hands back untouched rows, the results run
// through the same inbound pipeline as regular selects: casts,
// selected relations, hidden-column stripping.
func (m *Model) Raw(ctx context.Context, query string, args ...interface{}) ([]types.Row, error) {
	q := &sqlgen.Query{SQL: query, Args: args}
	defer m.reset()
	if m.err != nil {
		return nil, m.err
	}
	out, err := m.exec.Run(ctx, builder.ActionRaw, q)
	if err != nil {
		return nil, err
	}
	if err := m.processRows(ctx, out.Rows); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		return parseInt64(string(n))
	case string:
		return parseInt64(n)
	default:
		return 0
	}
}

func parseInt64(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
