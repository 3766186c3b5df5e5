// Package instances provides database operations for book copies.
//
// This package implements the InstanceStore interface defined in
// internal/http/loans.go.
//
// Copies sort by due date ascending. SQLite sorts NULLs first under ASC, so
// copies without a due date lead the listings; the loan queries below never
// see those because they filter on the on-loan status.
package instances

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles all book copy database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book copy repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new copy. The UUID identifier is assigned on create when
// absent. Referencing a missing book fails with
// database.ErrReferentialViolation.
func (r *Repository) Create(instance *entities.BookInstance) error {
	if err := r.db.Create(instance).Error; err != nil {
		return database.TranslateError(err)
	}
	return nil
}

// GetByID retrieves a single copy with its book preloaded.
func (r *Repository) GetByID(id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.Preload("Book").Where("id = ?", id).First(&instance).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &instance, nil
}

// Count returns the total number of copies.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.BookInstance{}).Count(&total).Error
	return total, err
}

// CountAvailable returns the number of copies currently available for loan.
func (r *Repository) CountAvailable() (int64, error) {
	var total int64
	err := r.db.Model(&entities.BookInstance{}).
		Where("status = ?", entities.StatusAvailable).
		Count(&total).Error
	return total, err
}

// ListOnLoan returns one page of all copies currently on loan, soonest due
// first, with books preloaded.
func (r *Repository) ListOnLoan(page, pageSize int) ([]entities.BookInstance, int64, error) {
	return r.listOnLoan(r.db, page, pageSize)
}

// ListOnLoanByBorrower returns one page of the copies a single borrower holds,
// soonest due first.
func (r *Repository) ListOnLoanByBorrower(borrowerID uint, page, pageSize int) ([]entities.BookInstance, int64, error) {
	return r.listOnLoan(r.db.Where("borrower_id = ?", borrowerID), page, pageSize)
}

func (r *Repository) listOnLoan(q *gorm.DB, page, pageSize int) ([]entities.BookInstance, int64, error) {
	q = q.Model(&entities.BookInstance{}).Where("status = ?", entities.StatusOnLoan)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var instances []entities.BookInstance
	err := q.
		Preload("Book").
		Preload("Borrower").
		Order("due_back ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&instances).Error
	return instances, total, err
}

// UpdateDueBack sets a new due date for a copy, the only field the renewal
// operation may touch. Concurrent renewals are last-write-wins.
func (r *Repository) UpdateDueBack(id string, dueBack time.Time) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).
		Update("due_back", dueBack)
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// MarkReturned clears the loan state of a copy and makes it available again.
func (r *Repository) MarkReturned(id string) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entities.StatusAvailable,
			"due_back":    nil,
			"borrower_id": nil,
		})
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// LoanOut puts an available copy on loan to a borrower until dueBack.
func (r *Repository) LoanOut(id string, borrowerID uint, dueBack time.Time) error {
	result := r.db.Model(&entities.BookInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entities.StatusOnLoan,
			"due_back":    dueBack,
			"borrower_id": borrowerID,
		})
	if result.Error != nil {
		return database.TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
