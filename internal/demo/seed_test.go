package demo

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestGenerate(t *testing.T) {
	dbPath := "./test_demo_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	require.NoError(t, Generate(dbPath))

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var bookCount int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&bookCount).Error)
	assert.Equal(t, int64(4), bookCount)

	var instanceCount int64
	require.NoError(t, db.DB.Model(&entities.BookInstance{}).Count(&instanceCount).Error)
	assert.Equal(t, int64(8), instanceCount)

	service := auth.NewService(db.DB, config.Auth{})

	librarian, err := service.Authenticate("librarian", Password)
	require.NoError(t, err)
	canRenew, err := service.HasPermission(librarian.ID, entities.PermCanMarkReturned)
	require.NoError(t, err)
	assert.True(t, canRenew)

	patron, err := service.Authenticate("patron", Password)
	require.NoError(t, err)
	canAdd, err := service.HasPermission(patron.ID, entities.PermAddBook)
	require.NoError(t, err)
	assert.False(t, canAdd)

	// The patron holds one seeded loan.
	var onLoan int64
	require.NoError(t, db.DB.Model(&entities.BookInstance{}).
		Where("status = ? AND borrower_id = ?", entities.StatusOnLoan, patron.ID).
		Count(&onLoan).Error)
	assert.Equal(t, int64(1), onLoan)
}
