package db

import (
	"context"
	"database/sql"
	"fmt"

	"task_deadlines/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Each directory keeps its own version table so several services can share
// one database in development.
func open(dsn, dir string) (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("goose_version_" + dir)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, err
	}
	return sql.Open("pgx", dsn)
}

// Migrate applies the embedded migrations in dir (one of the migrations
// package directory constants).
func Migrate(ctx context.Context, dsn, dir string) error {
	sqlDB, err := open(dsn, dir)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

// Status prints goose status for dir.
func Status(ctx context.Context, dsn, dir string) error {
	sqlDB, err := open(dsn, dir)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return goose.StatusContext(ctx, sqlDB, dir)
}
