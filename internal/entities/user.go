package entities

import (
	"time"

	"gorm.io/gorm"
)

// Permission codenames checked by the authorization middleware.
const (
	PermCanMarkReturned = "can_mark_returned"
	PermAddAuthor       = "add_author"
	PermChangeAuthor    = "change_author"
	PermDeleteAuthor    = "delete_author"
	PermAddBook         = "add_book"
	PermChangeBook      = "change_book"
	PermDeleteBook      = "delete_book"
	PermAddGenre        = "add_genre"
	PermDeleteGenre     = "delete_genre"
)

// AllPermissions lists every codename seeded into the database.
var AllPermissions = []string{
	PermCanMarkReturned,
	PermAddAuthor,
	PermChangeAuthor,
	PermDeleteAuthor,
	PermAddBook,
	PermChangeBook,
	PermDeleteBook,
	PermAddGenre,
	PermDeleteGenre,
}

// Permission is a named capability that can be granted to users.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Codename  string    `gorm:"uniqueIndex;size:100" json:"codename"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Permissions  []Permission   `gorm:"many2many:user_permissions" json:"permissions,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
