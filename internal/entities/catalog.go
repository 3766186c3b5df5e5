package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanStatus is the availability state of a single book copy.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

// LoanStatusLabels maps status codes to their display labels.
var LoanStatusLabels = map[LoanStatus]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

// Label returns the human-readable name for the status code.
func (s LoanStatus) Label() string {
	return LoanStatusLabels[s]
}

// Valid reports whether s is one of the known status codes.
func (s LoanStatus) Valid() bool {
	_, ok := LoanStatusLabels[s]
	return ok
}

// Genre is a classification label attached to books (many-to-many).
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"index;size:100" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	Books       []Book     `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DisplayName renders the author as "Last, First".
func (a Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

// DetailURL returns the canonical detail-page path for the author.
func (a Author) DetailURL() string {
	return fmt.Sprintf("/author/%d", a.ID)
}

// Book is a cataloged title. Individual loanable copies are BookInstances.
// AuthorID is nullable: deleting an author detaches their books rather than
// cascading.
type Book struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"index;size:200" json:"title"`
	AuthorID  *uint          `gorm:"index" json:"author_id,omitempty"`
	Author    *Author        `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Summary   string         `gorm:"size:1000" json:"summary"`
	ISBN      string         `gorm:"uniqueIndex;size:13" json:"isbn"`
	Genres    []Genre        `gorm:"many2many:book_genres" json:"genres,omitempty"`
	Instances []BookInstance `gorm:"foreignKey:BookID" json:"instances,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// maxDisplayGenres bounds the genre summary shown in listings.
const maxDisplayGenres = 3

// DisplayGenre joins the first three genre names for list display.
func (b Book) DisplayGenre() string {
	names := make([]string, 0, maxDisplayGenres)
	for _, g := range b.Genres {
		if len(names) == maxDisplayGenres {
			break
		}
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// DetailURL returns the canonical detail-page path for the book.
func (b Book) DetailURL() string {
	return fmt.Sprintf("/book/%d", b.ID)
}

// BookInstance is one physical copy of a book. Copies get opaque UUID
// identifiers so they cannot be enumerated. The referenced book cannot be
// deleted while copies of it exist.
type BookInstance struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	BookID     uint       `gorm:"index;not null" json:"book_id"`
	Book       Book       `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"book,omitempty"`
	Imprint    string     `gorm:"size:200" json:"imprint"`
	DueBack    *time.Time `json:"due_back,omitempty"`
	Status     LoanStatus `gorm:"size:1;default:'m'" json:"status"`
	BorrowerID *uint      `gorm:"index" json:"borrower_id,omitempty"`
	Borrower   *User      `gorm:"foreignKey:BorrowerID" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID when none was provided.
func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	return nil
}

// String combines the copy identifier with its book title.
func (bi BookInstance) String() string {
	return fmt.Sprintf("%s (%s)", bi.ID, bi.Book.Title)
}
