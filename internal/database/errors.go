package database

import (
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is a validation failure: another row already carries the
	// submitted unique value (e.g. a book ISBN). No row is written.
	ErrDuplicate = errors.New("record with this unique value already exists")

	// ErrReferentialViolation is returned when a delete is blocked by rows
	// that still reference the target.
	ErrReferentialViolation = errors.New("operation blocked by referencing rows")
)

// TranslateError maps driver-level failures onto the package sentinels so
// callers never match on SQLite error codes directly. Unrelated failures pass
// through untouched and surface as server errors.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
			return ErrReferentialViolation
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		}
	}
	return err
}
