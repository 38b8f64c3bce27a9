package database

import (
	"fmt"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens the SQLite file at path. A read-only handle refuses
// writes and fails if the file does not exist.
func OpenSQLite(path string, readOnly bool) (*gorm.DB, error) {
	if readOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// One connection keeps pragmas in effect for every query.
	sqlDB.SetMaxOpenConns(1)

	if readOnly {
		if err := db.Exec("PRAGMA query_only = ON").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("set query_only: %w", err)
		}
	}

	return db, nil
}
