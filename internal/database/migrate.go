package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// Migrate applies every *.surql file in fsys that has not been applied yet,
// in file name order. Applied files are recorded in the migration table.
func Migrate(ctx context.Context, db Database, fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.surql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	if err := db.Execute(ctx, "DEFINE TABLE IF NOT EXISTS migration SCHEMALESS", nil); err != nil {
		return fmt.Errorf("define migration table: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range names {
		key := strings.TrimSuffix(path.Base(name), ".surql")
		if applied[key] {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		// Schema statements are written with IF NOT EXISTS, so a crash
		// between the two calls only means the file runs again.
		if err := db.Execute(ctx, string(content), nil); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if err := db.Execute(ctx, "CREATE migration CONTENT { name: $name, applied_at: time::now() }",
			map[string]interface{}{"name": key}); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}

		slog.Info("applied migration", "name", key)
	}

	return nil
}

func appliedMigrations(ctx context.Context, db Database) (map[string]bool, error) {
	results, err := db.Query(ctx, "SELECT VALUE name FROM migration", nil)
	if err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}

	applied := make(map[string]bool)
	for _, v := range StatementRecords(results, 0) {
		if name, ok := v.(string); ok {
			applied[name] = true
		}
	}
	return applied, nil
}
