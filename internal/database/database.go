package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/tursodatabase/go-libsql"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const driverName = "libsql"

// pragmas run on every new connection. busy_timeout is per connection and
// comes first so the remaining pragmas already wait on a locked file.
var pragmas = []string{
	"PRAGMA busy_timeout=5000",
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
}

// Open creates a SQLite connection pool via libSQL. Every connection uses
// WAL journal mode, a 5 s busy timeout and enforced foreign keys.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}

	connector, err := newConnector("file:" + path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Every pooled connection to :memory: would see its own empty database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// pragmaConnector wraps the libSQL connector and configures each connection
// before the pool hands it out.
type pragmaConnector struct {
	base driver.Connector
}

func newConnector(dsn string) (driver.Connector, error) {
	// sql.Open does not dial; it only resolves the registered driver.
	lookup, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	drv := lookup.Driver()
	lookup.Close()

	if dc, ok := drv.(driver.DriverContext); ok {
		base, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, err
		}
		return pragmaConnector{base: base}, nil
	}
	return pragmaConnector{base: dsnConnector{dsn: dsn, drv: drv}}, nil
}

func (c pragmaConnector) Driver() driver.Driver { return c.base.Driver() }

func (c pragmaConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.base.Connect(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pragmas {
		if err := runPragma(ctx, conn, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
	}
	return conn, nil
}

// runPragma queries rather than execs: libSQL rejects Exec for PRAGMAs that
// return rows, and draining an empty result works for the others.
func runPragma(ctx context.Context, conn driver.Conn, pragma string) error {
	if q, ok := conn.(driver.QueryerContext); ok {
		rows, err := q.QueryContext(ctx, pragma, nil)
		if err != nil {
			return err
		}
		return rows.Close()
	}

	stmt, err := conn.Prepare(pragma)
	if err != nil {
		return err
	}
	defer stmt.Close()
	rows, err := stmt.Query(nil)
	if err != nil {
		return err
	}
	return rows.Close()
}

type dsnConnector struct {
	dsn string
	drv driver.Driver
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) { return c.drv.Open(c.dsn) }
func (c dsnConnector) Driver() driver.Driver                        { return c.drv }
