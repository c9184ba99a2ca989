package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/Gkemhcs/socialbridge-backend/internal/db/migrations"
	"github.com/sirupsen/logrus"
)

const migrationTable = "schema_migrations"

// Migrate applies the embedded schema migrations that have not run yet.
func Migrate(ctx context.Context, conn *sql.DB, logger *logrus.Logger) error {
	return ApplyMigrations(ctx, conn, migrations.FS, logger)
}

// ApplyMigrations executes every *.sql file of migrationFS at most once, in name order.
// Each file runs in its own transaction together with its bookkeeping row.
func ApplyMigrations(ctx context.Context, conn *sql.DB, migrationFS fs.FS, logger *logrus.Logger) error {
	files, err := MigrationFiles(migrationFS)
	if err != nil {
		return err
	}

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name       TEXT        PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, migrationTable)
	if _, err := conn.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		applied, err := isApplied(ctx, conn, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+migrationTable+" (name) VALUES ($1) ON CONFLICT DO NOTHING", file); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}

		logger.WithField("migration", file).Info("Applied migration")
	}
	return nil
}

// MigrationFiles lists the *.sql files at the root of migrationFS in apply order.
func MigrationFiles(migrationFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

func isApplied(ctx context.Context, conn *sql.DB, name string) (bool, error) {
	var found int
	err := conn.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = $1", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
