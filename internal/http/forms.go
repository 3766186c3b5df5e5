package http

import (
	"fmt"
	"time"

	"github.com/mrlokans/library-catalog/internal/validator"
)

// DateLayout is the wire format for all date fields.
const DateLayout = "2006-01-02"

// dateOnly strips the time-of-day so date comparisons ignore the clock.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseOptionalDate validates an optional date field, recording a field error
// on v when the value is present but malformed.
func parseOptionalDate(v *validator.Validator, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		v.AddError(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &parsed
}

// AuthorForm carries the submitted fields for author create/update.
type AuthorForm struct {
	FirstName   string `form:"first_name" json:"first_name"`
	LastName    string `form:"last_name" json:"last_name"`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth"`
	DateOfDeath string `form:"date_of_death" json:"date_of_death"`
}

// Validate checks the form and returns the parsed optional dates.
func (f AuthorForm) Validate(v *validator.Validator) (birth, death *time.Time) {
	v.Check(f.FirstName != "", "first_name", "must be provided")
	v.Check(len(f.FirstName) <= 100, "first_name", "must not exceed 100 characters")
	v.Check(f.LastName != "", "last_name", "must be provided")
	v.Check(len(f.LastName) <= 100, "last_name", "must not exceed 100 characters")

	birth = parseOptionalDate(v, "date_of_birth", f.DateOfBirth)
	death = parseOptionalDate(v, "date_of_death", f.DateOfDeath)
	if birth != nil && death != nil {
		v.Check(!death.Before(*birth), "date_of_death", "must not precede date of birth")
	}
	return birth, death
}

// BookForm carries the submitted fields for book create/update.
type BookForm struct {
	Title    string `form:"title" json:"title"`
	AuthorID *uint  `form:"author_id" json:"author_id"`
	Summary  string `form:"summary" json:"summary"`
	ISBN     string `form:"isbn" json:"isbn"`
	GenreIDs []uint `form:"genre_ids" json:"genre_ids"`
}

// Validate checks the form fields against the book constraints.
func (f BookForm) Validate(v *validator.Validator) {
	v.Check(f.Title != "", "title", "must be provided")
	v.Check(len(f.Title) <= 200, "title", "must not exceed 200 characters")
	v.Check(len(f.Summary) <= 1000, "summary", "must not exceed 1000 characters")
	v.Check(len(f.ISBN) == 13, "isbn", "must be exactly 13 characters")
}

// RenewForm carries the proposed renewal date for a book copy.
type RenewForm struct {
	RenewalDate string `form:"renewal_date" json:"renewal_date"`
}

// Validate parses and bounds-checks the proposed date. The window runs from
// today through today + maxWeeks, both inclusive, recomputed against now on
// every submission.
func (f RenewForm) Validate(v *validator.Validator, now time.Time, maxWeeks int) time.Time {
	if f.RenewalDate == "" {
		v.AddError("renewal_date", "must be provided")
		return time.Time{}
	}
	parsed, err := time.Parse(DateLayout, f.RenewalDate)
	if err != nil {
		v.AddError("renewal_date", "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}

	date := dateOnly(parsed)
	today := dateOnly(now)
	v.Check(!date.Before(today), "renewal_date", "invalid date - renewal in past")
	v.Check(!date.After(today.AddDate(0, 0, 7*maxWeeks)), "renewal_date",
		fmt.Sprintf("invalid date - renewal more than %d weeks ahead", maxWeeks))
	return date
}

// ProposedRenewalDate is the business default offered on the initial form
// display: weeks weeks from today, recomputed per request.
func ProposedRenewalDate(now time.Time, weeks int) time.Time {
	return dateOnly(now).AddDate(0, 0, 7*weeks)
}
