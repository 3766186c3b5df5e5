// Package authors provides database operations for author management.
//
// This package implements the AuthorStore interface defined in
// internal/http/authors.go.
package authors

import (
	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new author.
func (r *Repository) Create(author *entities.Author) error {
	if err := r.db.Create(author).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// Update persists changes to an existing author.
func (r *Repository) Update(author *entities.Author) error {
	if err := r.db.Save(author).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// GetByID retrieves a single author with their books.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Preload("Books").First(&author, id).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &author, nil
}

// List returns one page of authors ordered by last name then first name,
// together with the total author count. The ordering is applied explicitly on
// every query rather than assumed from the schema.
func (r *Repository) List(page, pageSize int) ([]entities.Author, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Author{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []entities.Author
	err := r.db.
		Order("last_name ASC, first_name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&authors).Error
	return authors, total, err
}

// Count returns the total number of authors.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Author{}).Count(&total).Error
	return total, err
}

// Delete removes an author. Books referencing the author are detached (their
// author becomes absent) inside the same transaction, matching the nullable
// Book->Author relation. Constraint failures from other references still come
// back as database.ErrReferentialViolation.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Author{}, id)
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
