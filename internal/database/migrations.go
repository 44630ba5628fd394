package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations applies any pending goose migrations from dir against db.
// The marketplace schema (users, stores, products, orders, messages,
// feedbacks) is managed exclusively through these files and must be fully
// applied before the server starts serving.
func RunMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	logger.Info("Applying schema migrations", zap.String("dir", dir))

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	logger.Info("Schema is up to date", zap.Int64("version", version))
	return nil
}
