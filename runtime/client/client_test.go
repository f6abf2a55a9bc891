package client

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goquent/goquent/runtime/config"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestFromDB(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := FromDB("mysql", db)
	assert.Equal(t, "mysql", c.Driver())
	assert.Same(t, db, c.DB())
}

func TestServerVersion(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT VERSION()").
		WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.36-0ubuntu0.22.04.1"))

	c := FromDB("mysql", db)
	got, err := c.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.0.36-0ubuntu0.22.04.1", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckServerVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"modern release", "8.0.36", false},
		{"minimum release", "5.7.0", false},
		{"vendor suffix", "5.7.44-log", false},
		{"too old", "5.6.51", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery("SELECT VERSION()").
				WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow(tt.version))

			c := FromDB("mysql", db)
			err = c.CheckServerVersion(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckServerVersionSkipsSQLite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := FromDB("sqlite3", db)
	require.NoError(t, c.CheckServerVersion(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
