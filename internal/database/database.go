package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/config"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
)

// Connect opens the store, applies the pool configuration and runs the
// migrations. The returned handle is constructed once at startup and passed
// into every component; nothing in this codebase reaches for a global.
func Connect(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnIdleTimeout)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the four resource tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Link{},
		&models.Collection{},
		&models.Tag{},
		&models.UserToCollection{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
