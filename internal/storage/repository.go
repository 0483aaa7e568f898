package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/reader/internal/entities"
)

// documentVersion is the current on-disk document format. Version 0 is
// the legacy format: a bare JSON array of annotation records.
const documentVersion = 1

// bookDocument is the stored shape of one book's collection.
type bookDocument struct {
	Version     int                   `json:"version"`
	Annotations []entities.Annotation `json:"annotations"`
}

// Repository handles all annotation persistence. It implements
// annotations.Repository.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the stored collection for a book. A book with no record
// yet is an empty collection, not an error. Malformed payloads and
// unknown document versions are errors; callers degrade them to empty.
func (r *Repository) Load(bookID string) ([]entities.Annotation, error) {
	var record BookAnnotations
	err := r.db.Where("book_id = ?", bookID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations for book %s: %w", bookID, err)
	}

	return decodeDocument(bookID, []byte(record.Payload))
}

// Save upserts the full collection for a book as a current-version
// document.
func (r *Repository) Save(bookID string, items []entities.Annotation) error {
	if items == nil {
		items = []entities.Annotation{}
	}
	payload, err := json.Marshal(bookDocument{
		Version:     documentVersion,
		Annotations: items,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize annotations for book %s: %w", bookID, err)
	}

	record := BookAnnotations{BookID: bookID, Payload: string(payload)}
	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store annotations for book %s: %w", bookID, err)
	}
	return nil
}

// Books lists every book id with a stored collection.
func (r *Repository) Books() ([]string, error) {
	var ids []string
	err := r.db.Model(&BookAnnotations{}).
		Order("book_id ASC").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return ids, nil
}

// DeleteBook drops a book's stored collection entirely.
func (r *Repository) DeleteBook(bookID string) error {
	return r.db.Where("book_id = ?", bookID).Delete(&BookAnnotations{}).Error
}

func decodeDocument(bookID string, payload []byte) ([]entities.Annotation, error) {
	var doc bookDocument
	if err := json.Unmarshal(payload, &doc); err == nil && doc.Version > 0 {
		if doc.Version > documentVersion {
			return nil, fmt.Errorf("unknown annotation document version %d for book %s", doc.Version, bookID)
		}
		return doc.Annotations, nil
	}

	// Legacy version 0: a bare array, as the web reader used to write.
	var items []entities.Annotation
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("malformed annotation record for book %s: %w", bookID, err)
	}
	return items, nil
}
