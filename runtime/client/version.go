package client

import (
	"context"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// minMySQLVersion is the oldest MySQL release the generated SQL is
// exercised against.
const minMySQLVersion = "5.7.0"

// ServerVersion reports the server version string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	var raw string
	var err error
	switch c.driver {
	case "sqlite3":
		err = c.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&raw)
	default:
		err = c.db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&raw)
	}
	if err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}
	return raw, nil
}

// CheckServerVersion fails when a MySQL server is older than the
// minimum supported release. Other drivers pass unconditionally.
func (c *Client) CheckServerVersion(ctx context.Context) error {
	if c.driver != "mysql" {
		return nil
	}

	raw, err := c.ServerVersion(ctx)
	if err != nil {
		return err
	}

	// Strip build metadata such as "8.0.36-0ubuntu0.22.04.1".
	core := raw
	if idx := strings.IndexByte(core, '-'); idx >= 0 {
		core = core[:idx]
	}

	have, err := goversion.NewVersion(core)
	if err != nil {
		return fmt.Errorf("parse server version %q: %w", raw, err)
	}
	want := goversion.Must(goversion.NewVersion(minMySQLVersion))
	if have.LessThan(want) {
		return fmt.Errorf("server version %s is below the minimum supported %s", raw, minMySQLVersion)
	}
	return nil
}
