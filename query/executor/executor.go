// Package executor runs compiled statements against a *sql.DB and scans
// results into generic rows.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/sqlgen"
	"github.com/goquent/goquent/runtime/types"
)

// Executor executes compiled queries.
type Executor struct {
	db *sql.DB
}

// New creates an Executor over the given database handle.
func New(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Outcome is the tagged result of a statement execution. Exactly one of the
// fields is meaningful, depending on the action: InsertID for insert,
// Affected for update/delete, Rows for select and raw statements.
type Outcome struct {
	InsertID int64
	Affected int64
	Rows     []types.Row
}

// Run executes q according to action. Write actions run inside their own
// transaction, committed on success and rolled back on every error path.
func (e *Executor) Run(ctx context.Context, action builder.Action, q *sqlgen.Query) (*Outcome, error) {
	switch action {
	case builder.ActionInsert, builder.ActionUpdate, builder.ActionDelete:
		return e.exec(ctx, action, q)
	default:
		rows, err := e.query(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Outcome{Rows: rows}, nil
	}
}

func (e *Executor) exec(ctx context.Context, action builder.Action, q *sqlgen.Query) (*Outcome, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("executor: begin: %w", err)
	}
	res, err := tx.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return nil, fmt.Errorf("executor: exec: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("executor: commit: %w", err)
	}

	out := &Outcome{}
	if action == builder.ActionInsert {
		// Not every driver reports the insert id; leave it zero then.
		if id, err := res.LastInsertId(); err == nil {
			out.InsertID = id
		}
		return out, nil
	}
	if n, err := res.RowsAffected(); err == nil {
		out.Affected = n
	}
	return out, nil
}

func (e *Executor) query(ctx context.Context, q *sqlgen.Query) ([]types.Row, error) {
	rows, err := e.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("executor: query: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// scanRows reads every row into a map keyed by column name, normalizing
// []byte values to strings.
func scanRows(rows *sql.Rows) ([]types.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("executor: columns: %w", err)
	}

	var out []types.Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("executor: scan: %w", err)
		}
		row := make(types.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("executor: rows: %w", err)
	}
	return out, nil
}
