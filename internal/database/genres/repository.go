// Package genres provides database operations for genre management.
//
// This package implements the GenreStore interface defined in
// internal/http/genres.go.
package genres

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new genre. Duplicate names surface as
// database.ErrDuplicate.
func (r *Repository) Create(genre *entities.Genre) error {
	if err := r.db.Create(genre).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// List returns all genres ordered by name.
func (r *Repository) List() ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetByIDs resolves a set of genre ids, used when binding a book form's genre
// selection.
func (r *Repository) GetByIDs(ids []uint) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []entities.Genre
	err := r.db.Where("id IN ?", ids).Find(&genres).Error
	return genres, err
}

// Delete removes a genre and its book links. A genre may be detached from
// books freely; the link rows go first so the delete cannot orphan them.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Genre{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return database.TranslateError(err)
}
