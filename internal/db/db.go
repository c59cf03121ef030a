package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/beaudrinjuniorjoseph-cpu/dating-app1/internal/config"
)

// NewDB initializes the database connection using DSN from config.
//
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the swipe ledger and match engine rely on that
// to turn racing duplicate inserts into idempotent success.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(database); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return database, nil
}

// Migrate keeps the schema in sync with the models. Shared by the server,
// the seed command and the test helpers.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&User{},
		&Profile{},
		&Swipe{},
		&Match{},
		&Message{},
		&Subscription{},
	)
}
