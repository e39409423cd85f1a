package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/lexio-app/lexio/schemas"
)

// Migrate applies all embedded SQL migration files in lexical order.
// Statements use IF NOT EXISTS so re-running is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	entries, err := fs.ReadDir(schemas.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("fs.ReadDir(migrations) > %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(schemas.Migrations, "migrations/"+name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("db.ExecContext(%s) > %w", name, err)
		}
	}

	return nil
}
