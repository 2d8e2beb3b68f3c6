package repositories

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rohits-web03/webfile/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the host entity database and runs migrations.
// DSNs starting with "sqlite:" use the embedded SQLite driver, anything else Postgres.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// Run migrations
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
