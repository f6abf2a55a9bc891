package model

import (
	"context"

	"github.com/goquent/goquent/internal/debug"
	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/cast"
	"github.com/goquent/goquent/query/executor"
	"github.com/goquent/goquent/query/sqlgen"
	"github.com/goquent/goquent/runtime/types"
)

// reset clears the accumulated query state so the Model can be reused.
func (m *Model) reset() {
	m.b.Reset()
	m.withs = nil
	m.err = nil
}

// process compiles the accumulated description, runs it, and pushes
// select results through the inbound pipeline. When reset is true the
// accumulated state is cleared afterwards regardless of outcome;
// Paginate passes false to keep the filters for its count pass.
func (m *Model) process(ctx context.Context, reset bool) (*executor.Outcome, error) {
	if reset {
		defer m.reset()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.def.Table == "" {
		return nil, sqlgen.ErrNoTable
	}

	desc := m.b.Snapshot()
	q, err := sqlgen.Generate(m.def.Table, &desc)
	if err != nil {
		debug.Error("statement build failed", "table", m.def.Table, "error", err)
		return nil, err
	}

	out, err := m.exec.Run(ctx, desc.Action, q)
	if err != nil {
		debug.Error("query failed", "table", m.def.Table, "sql", q.SQL, "error", err)
		return nil, err
	}

	if desc.Action == builder.ActionSelect || desc.Action == builder.ActionRaw {
		if err := m.processRows(ctx, out.Rows); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// processRows applies the inbound pipeline in order: cast values,
// attach relations, strip hidden columns. Relations must see cast
// values; hidden stripping runs last so a hidden parent column can
// still correlate a relation.
func (m *Model) processRows(ctx context.Context, rows []types.Row) error {
	for _, row := range rows {
		cast.Apply(row, m.def.Casts, cast.Inbound)
	}
	if len(m.withs) > 0 && len(rows) > 0 {
		if err := m.attachRelations(ctx, rows); err != nil {
			return err
		}
	}
	if len(m.def.Hidden) > 0 {
		for _, row := range rows {
			for _, h := range m.def.Hidden {
				delete(row, h)
			}
		}
	}
	return nil
}
