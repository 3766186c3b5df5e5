// Package database owns the SQLite connection, schema migration and seed data.
// Per-entity query logic lives in the repository subpackages (authors, books,
// genres, instances).
package database

import (
	"database/sql"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-catalog/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the catalog database, migrates the schema and
// seeds the permission table. Foreign key enforcement is switched on so the
// restrict/set-null delete policies actually hold.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Permission{},
		&entities.Genre{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedPermissions(); err != nil {
		return nil, fmt.Errorf("failed to seed permissions: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB exposes the underlying *sql.DB, used by the session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) seedPermissions() error {
	for _, codename := range entities.AllPermissions {
		var existing entities.Permission
		result := d.DB.Where("codename = ?", codename).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&entities.Permission{Codename: codename}).Error; err != nil {
				return fmt.Errorf("failed to create permission %s: %w", codename, err)
			}
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
