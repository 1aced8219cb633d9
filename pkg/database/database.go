package database

import (
	"fmt"

	"mailgate-backend/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewConnection opens the mailbox store. Postgres is the production
// backend; sqlite serves single-node and development setups.
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseDriver)
	}
}
