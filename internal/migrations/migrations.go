// Package migrations holds the embedded SQL schema, applied with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var fs embed.FS

const dialect = "sqlite3"

func setup() error {
	goose.SetBaseFS(fs)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	return nil
}

// Run applies all pending migrations against db.
func Run(db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Checker reports an error when the schema is behind the embedded
// migrations. It adapts to health.Checker.
type Checker struct {
	DB *sql.DB
}

func (c Checker) Check(ctx context.Context) error {
	if err := setup(); err != nil {
		return err
	}
	current, err := goose.GetDBVersionContext(ctx, c.DB)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	migs, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("collecting migrations: %w", err)
	}
	last, err := migs.Last()
	if err != nil {
		return fmt.Errorf("latest migration: %w", err)
	}
	if current < last.Version {
		return fmt.Errorf("schema at version %d, want %d", current, last.Version)
	}
	return nil
}
