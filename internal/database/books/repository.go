// Package books provides database operations for book management.
//
// This package implements the BookStore interface defined in
// internal/http/books.go.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book with its genre set. A duplicate ISBN is reported
// as database.ErrDuplicate before anything is written.
func (r *Repository) Create(book *entities.Book) error {
	if err := r.checkISBN(book.ISBN, 0); err != nil {
		return err
	}
	if err := r.db.Create(book).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// Update persists changes to an existing book, replacing its genre set.
func (r *Repository) Update(book *entities.Book) error {
	if err := r.checkISBN(book.ISBN, book.ID); err != nil {
		return err
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(book).Association("Genres").Replace(book.Genres); err != nil {
			return err
		}
		return tx.Omit("Genres").Save(book).Error
	})
	return database.TranslateError(err)
}

// checkISBN reports database.ErrDuplicate when another book (excluding
// excludeID) already uses the ISBN.
func (r *Repository) checkISBN(isbn string, excludeID uint) error {
	var existing entities.Book
	err := r.db.Where("isbn = ? AND id <> ?", isbn, excludeID).First(&existing).Error
	if err == nil {
		return database.ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// GetByID retrieves a single book with its author, genres and copies.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("Author").
		Preload("Genres").
		Preload("Instances").
		First(&book, id).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &book, nil
}

// List returns one page of books with authors and genres preloaded so list
// rendering never does per-row lookups, plus the total book count.
func (r *Repository) List(page, pageSize int) ([]entities.Book, int64, error) {
	var total int64
	if err := r.db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := r.db.
		Preload("Author").
		Preload("Genres").
		Order("title ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error
	return books, total, err
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Count(&total).Error
	return total, err
}

// Delete removes a book and its genre links. The delete is refused with
// database.ErrReferentialViolation while copies of the book still exist.
func (r *Repository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var instances int64
		if err := tx.Model(&entities.BookInstance{}).
			Where("book_id = ?", id).
			Count(&instances).Error; err != nil {
			return err
		}
		if instances > 0 {
			return database.ErrReferentialViolation
		}

		if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
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
