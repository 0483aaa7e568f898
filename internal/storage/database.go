// Package storage is the durable per-book persistence layer. Each book's
// annotation collection is stored as one serialized, versioned document
// keyed by book id.
package storage

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BookAnnotations is one row per book: the serialized annotation
// collection plus bookkeeping.
type BookAnnotations struct {
	BookID    string    `gorm:"primaryKey;size:256" json:"book_id"`
	Payload   string    `gorm:"type:text" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BookAnnotations) TableName() string {
	return "book_annotations"
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&BookAnnotations{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
