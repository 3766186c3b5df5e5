package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/validator"
)

func TestRenewFormValidate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	const maxWeeks = 4

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"today is allowed", "2026-03-10", true},
		{"yesterday is rejected", "2026-03-09", false},
		{"upper bound is allowed", "2026-04-07", true},
		{"one past the upper bound is rejected", "2026-04-08", false},
		{"empty is rejected", "", false},
		{"malformed is rejected", "10/03/2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			date := RenewForm{RenewalDate: tt.value}.Validate(v, now, maxWeeks)
			if tt.valid {
				assert.True(t, v.Valid(), "errors: %v", v.Errors)
				assert.Equal(t, tt.value, date.Format(DateLayout))
			} else {
				assert.False(t, v.Valid())
				assert.Contains(t, v.Errors, "renewal_date")
			}
		})
	}
}

func TestRenewFormValidateIgnoresTimeOfDay(t *testing.T) {
	// Just before midnight, today must still count as today.
	now := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)

	v := validator.New()
	RenewForm{RenewalDate: "2026-03-10"}.Validate(v, now, 4)
	assert.True(t, v.Valid(), "errors: %v", v.Errors)
}

func TestProposedRenewalDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	proposed := ProposedRenewalDate(now, 3)
	assert.Equal(t, "2026-03-31", proposed.Format(DateLayout))
}

func TestAuthorFormValidate(t *testing.T) {
	t.Run("valid form parses dates", func(t *testing.T) {
		v := validator.New()
		form := AuthorForm{
			FirstName:   "Ursula",
			LastName:    "Le Guin",
			DateOfBirth: "1929-10-21",
			DateOfDeath: "2018-01-22",
		}
		birth, death := form.Validate(v)
		require.True(t, v.Valid(), "errors: %v", v.Errors)
		assert.Equal(t, "1929-10-21", birth.Format(DateLayout))
		assert.Equal(t, "2018-01-22", death.Format(DateLayout))
	})

	t.Run("names are required", func(t *testing.T) {
		v := validator.New()
		AuthorForm{}.Validate(v)
		assert.Contains(t, v.Errors, "first_name")
		assert.Contains(t, v.Errors, "last_name")
	})

	t.Run("death before birth is rejected", func(t *testing.T) {
		v := validator.New()
		form := AuthorForm{
			FirstName:   "A",
			LastName:    "B",
			DateOfBirth: "1950-01-01",
			DateOfDeath: "1940-01-01",
		}
		form.Validate(v)
		assert.Contains(t, v.Errors, "date_of_death")
	})

	t.Run("dates are optional", func(t *testing.T) {
		v := validator.New()
		birth, death := AuthorForm{FirstName: "A", LastName: "B"}.Validate(v)
		assert.True(t, v.Valid())
		assert.Nil(t, birth)
		assert.Nil(t, death)
	})
}

func TestBookFormValidate(t *testing.T) {
	t.Run("isbn must be thirteen characters", func(t *testing.T) {
		v := validator.New()
		BookForm{Title: "T", ISBN: "12345"}.Validate(v)
		assert.Contains(t, v.Errors, "isbn")
	})

	t.Run("title is required", func(t *testing.T) {
		v := validator.New()
		BookForm{ISBN: "9780441172719"}.Validate(v)
		assert.Contains(t, v.Errors, "title")
	})

	t.Run("valid form passes", func(t *testing.T) {
		v := validator.New()
		BookForm{Title: "Dune", ISBN: "9780441172719"}.Validate(v)
		assert.True(t, v.Valid(), "errors: %v", v.Errors)
	})
}
