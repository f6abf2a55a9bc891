package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/sqlgen"
)

func newMock(t *testing.T) (*Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestRunSelect(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectQuery("SELECT users.* FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "alice").
			AddRow(int64(2), []byte("bob")))

	out, err := e.Run(context.Background(), builder.ActionSelect, &sqlgen.Query{SQL: "SELECT users.* FROM users"})
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, int64(1), out.Rows[0]["id"])
	assert.Equal(t, "alice", out.Rows[0]["name"])
	// []byte columns are normalized to strings.
	assert.Equal(t, "bob", out.Rows[1]["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSelectNoRows(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectQuery("SELECT users.* FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := e.Run(context.Background(), builder.ActionSelect, &sqlgen.Query{SQL: "SELECT users.* FROM users"})
	require.NoError(t, err)
	assert.Empty(t, out.Rows)
}

func TestRunInsertCommits(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users SET name = ?").
		WithArgs("x").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	out, err := e.Run(context.Background(), builder.ActionInsert,
		&sqlgen.Query{SQL: "INSERT INTO users SET name = ?", Args: []interface{}{"x"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.InsertID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunUpdateReportsAffected(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET name = ? WHERE users.id = ?").
		WithArgs("y", 1).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	out, err := e.Run(context.Background(), builder.ActionUpdate,
		&sqlgen.Query{SQL: "UPDATE users SET name = ? WHERE users.id = ?", Args: []interface{}{"y", 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunExecErrorRollsBack(t *testing.T) {
	e, mock := newMock(t)
	boom := errors.New("duplicate entry")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users WHERE users.id = ?").
		WithArgs(1).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := e.Run(context.Background(), builder.ActionDelete,
		&sqlgen.Query{SQL: "DELETE FROM users WHERE users.id = ?", Args: []interface{}{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunQueryErrorPropagates(t *testing.T) {
	e, mock := newMock(t)
	boom := errors.New("syntax error")
	mock.ExpectQuery("SELECT nope").WillReturnError(boom)

	_, err := e.Run(context.Background(), builder.ActionSelect, &sqlgen.Query{SQL: "SELECT nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRunRawGoesThroughQueryPath(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectQuery("SELECT 1 AS one").
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(int64(1)))

	out, err := e.Run(context.Background(), builder.ActionRaw, &sqlgen.Query{SQL: "SELECT 1 AS one"})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, int64(1), out.Rows[0]["one"])
}
