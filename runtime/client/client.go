// Package client manages the database connection pool used by models
// and the query executor.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/goquent/goquent/internal/debug"
	"github.com/goquent/goquent/runtime/config"
)

// Client wraps a sql.DB connection pool for a single database.
type Client struct {
	db     *sql.DB
	driver string
}

// Open connects to the database described by cfg and configures the
// connection pool. Only the mysql and sqlite3 drivers are supported.
func Open(cfg *config.Config) (*Client, error) {
	switch cfg.Driver {
	case "mysql", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", cfg.Driver, err)
	}

	if cfg.PoolSize > 0 {
		db.SetMaxOpenConns(cfg.PoolSize)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	lifetime := cfg.MaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)

	debug.Debug("database pool opened", "driver", cfg.Driver, "host", cfg.Host, "database", cfg.Database)

	return &Client{db: db, driver: cfg.Driver}, nil
}

// FromDB wraps an existing connection pool. The caller keeps ownership
// of the pool lifecycle.
func FromDB(driver string, db *sql.DB) *Client {
	return &Client{db: db, driver: driver}
}

// DB exposes the underlying pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Driver returns the driver name the client was opened with.
func (c *Client) Driver() string {
	return c.driver
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}
