package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridsense/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemoryDSN keeps all state in process memory; nothing survives exit.
const MemoryDSN = "file::memory:?cache=shared"

// Open opens (and if necessary creates) the sqlite database at dsn and
// migrates the schema. The returned handle is passed down explicitly
// rather than held in a package global so tests can run isolated stores
// side by side.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	inMemory := strings.Contains(dsn, ":memory:")
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if inMemory {
		// Each sqlite connection to :memory: is its own database;
		// pin the pool to one connection so all queries see one store.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying *sql.DB: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.Snapshot{},
		&models.AdjustmentRecord{},
		&models.Alert{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	log.Printf("Database initialized at %s", dsn)
	return db, nil
}

// Close closes the underlying sql.DB of a gorm handle.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %v", err)
	}

	return sqlDB.Close()
}
