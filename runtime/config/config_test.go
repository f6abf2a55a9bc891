package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, 5, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MaxIdle)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "orders")
	t.Setenv("DB_POOL_SIZE", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 3307, cfg.Port)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "orders", cfg.Database)
	assert.Equal(t, 12, cfg.PoolSize)
}

func TestDSNMySQL(t *testing.T) {
	cfg := &Config{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "pw",
		Database: "app",
	}
	assert.Equal(t, "root:pw@tcp(localhost:3306)/app?parseTime=true&charset=utf8mb4", cfg.DSN())
}

func TestDSNSQLite(t *testing.T) {
	cfg := &Config{Driver: "sqlite3", Database: "/tmp/app.db"}
	assert.Equal(t, "/tmp/app.db", cfg.DSN())
}
