package instances

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_instances_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Genre{},
		&entities.Author{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createBook(t *testing.T, db *gorm.DB, title, isbn string) entities.Book {
	t.Helper()
	book := entities.Book{Title: title, ISBN: isbn}
	require.NoError(t, db.Create(&book).Error)
	return book
}

func createUser(t *testing.T, db *gorm.DB, username string) entities.User {
	t.Helper()
	user := entities.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func onLoan(t *testing.T, repo *Repository, bookID uint, borrowerID uint, due time.Time) entities.BookInstance {
	t.Helper()
	instance := entities.BookInstance{
		BookID:     bookID,
		Imprint:    "Test imprint",
		Status:     entities.StatusOnLoan,
		BorrowerID: &borrowerID,
		DueBack:    &due,
	}
	require.NoError(t, repo.Create(&instance))
	return instance
}

func TestRepository_Create_AssignsUUID(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	instance := entities.BookInstance{BookID: book.ID, Imprint: "Ace paperback"}
	require.NoError(t, repo.Create(&instance))

	assert.Len(t, instance.ID, 36)
	assert.Equal(t, entities.StatusMaintenance, instance.Status)

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Book.Title)
}

func TestRepository_Create_MissingBook(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	instance := entities.BookInstance{BookID: 999, Imprint: "Phantom"}
	err := repo.Create(&instance)
	assert.ErrorIs(t, err, database.ErrReferentialViolation)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Counts(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	for _, status := range []entities.LoanStatus{
		entities.StatusAvailable,
		entities.StatusAvailable,
		entities.StatusOnLoan,
		entities.StatusMaintenance,
	} {
		instance := entities.BookInstance{BookID: book.ID, Status: status}
		require.NoError(t, repo.Create(&instance))
	}

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	available, err := repo.CountAvailable()
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)
}

func TestRepository_ListOnLoanByBorrower(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	later := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	onLoan(t, repo, book.ID, alice.ID, later)
	first := onLoan(t, repo, book.ID, alice.ID, sooner)
	onLoan(t, repo, book.ID, bob.ID, sooner)

	// An available copy must never show up in the loan listings.
	available := entities.BookInstance{BookID: book.ID, Status: entities.StatusAvailable}
	require.NoError(t, repo.Create(&available))

	got, total, err := repo.ListOnLoanByBorrower(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)

	// Soonest due first, and only alice's loans.
	assert.Equal(t, first.ID, got[0].ID)
	for _, instance := range got {
		assert.Equal(t, entities.StatusOnLoan, instance.Status)
		require.NotNil(t, instance.BorrowerID)
		assert.Equal(t, alice.ID, *instance.BorrowerID)
	}
	assert.False(t, got[1].DueBack.Before(*got[0].DueBack))
}

func TestRepository_ListOnLoan_AllBorrowers(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	due := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	onLoan(t, repo, book.ID, alice.ID, due)
	onLoan(t, repo, book.ID, bob.ID, due.AddDate(0, 0, -5))

	got, total, err := repo.ListOnLoan(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "Dune", got[0].Book.Title)
}

func TestRepository_ListOnLoan_NullDueBackSortsFirst(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	alice := createUser(t, db, "alice")

	due := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	onLoan(t, repo, book.ID, alice.ID, due)

	// A copy can go on loan with no due date set; it must lead the listing
	// under due_back ASC because sqlite sorts NULLs first.
	undated := entities.BookInstance{
		BookID:  book.ID,
		Imprint: "Test imprint",
		Status:  entities.StatusOnLoan,
	}
	require.NoError(t, repo.Create(&undated))

	got, total, err := repo.ListOnLoan(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, undated.ID, got[0].ID)
	assert.Nil(t, got[0].DueBack)
	require.NotNil(t, got[1].DueBack)
}

func TestRepository_UpdateDueBack(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	alice := createUser(t, db, "alice")
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	instance := onLoan(t, repo, book.ID, alice.ID, due)

	renewed := due.AddDate(0, 0, 21)
	require.NoError(t, repo.UpdateDueBack(instance.ID, renewed))

	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueBack)
	assert.Equal(t, renewed.Format("2006-01-02"), got.DueBack.Format("2006-01-02"))
	// Renewal only touches the due date.
	assert.Equal(t, entities.StatusOnLoan, got.Status)
	require.NotNil(t, got.BorrowerID)
}

func TestRepository_UpdateDueBack_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateDueBack("00000000-0000-0000-0000-000000000000", time.Now())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_MarkReturnedAndLoanOut(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := createBook(t, db, "Dune", "9780441172719")
	alice := createUser(t, db, "alice")
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	instance := onLoan(t, repo, book.ID, alice.ID, due)

	require.NoError(t, repo.MarkReturned(instance.ID))
	got, err := repo.GetByID(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAvailable, got.Status)
	assert.Nil(t, got.DueBack)
	assert.Nil(t, got.BorrowerID)

	require.NoError(t, repo.LoanOut(instance.ID, alice.ID, due.AddDate(0, 1, 0)))
	got, err = repo.GetByID(instance.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusOnLoan, got.Status)
	require.NotNil(t, got.BorrowerID)
	assert.Equal(t, alice.ID, *got.BorrowerID)
}
