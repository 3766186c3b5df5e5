package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validator"
)

// AuthorStore is the author data access used by the controller. Implemented
// by internal/database/authors.Repository.
type AuthorStore interface {
	Create(author *entities.Author) error
	Update(author *entities.Author) error
	Delete(id uint) error
	GetByID(id uint) (*entities.Author, error)
	List(page, pageSize int) ([]entities.Author, int64, error)
}

// AuthorsController serves the author list, detail and mutation endpoints.
type AuthorsController struct {
	store    AuthorStore
	pageSize int
}

// NewAuthorsController creates a new authors controller.
func NewAuthorsController(store AuthorStore, pageSize int) *AuthorsController {
	return &AuthorsController{store: store, pageSize: pageSize}
}

// authorView is the payload shape for a single author.
type authorView struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DisplayName string  `json:"display_name"`
	DateOfBirth *string `json:"date_of_birth"`
	DateOfDeath *string `json:"date_of_death"`
	URL         string  `json:"url"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func newAuthorView(a entities.Author) authorView {
	return authorView{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DisplayName: a.DisplayName(),
		DateOfBirth: formatDate(a.DateOfBirth),
		DateOfDeath: formatDate(a.DateOfDeath),
		URL:         a.DetailURL(),
	}
}

// List returns one page of authors ordered by last then first name.
func (ac *AuthorsController) List(c *gin.Context) {
	page := parsePageParam(c)
	authors, total, err := ac.store.List(page, ac.pageSize)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	views := make([]authorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, newAuthorView(a))
	}
	c.JSON(http.StatusOK, paginated(views, page, ac.pageSize, total))
}

// Detail returns a single author with their books.
func (ac *AuthorsController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	books := make([]gin.H, 0, len(author.Books))
	for _, b := range author.Books {
		books = append(books, gin.H{"id": b.ID, "title": b.Title, "url": b.DetailURL()})
	}

	c.JSON(http.StatusOK, gin.H{
		"author": newAuthorView(*author),
		"books":  books,
	})
}

// CreateForm returns the blank author form payload.
func (ac *AuthorsController) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": AuthorForm{}})
}

// Create validates the submitted form and persists a new author, redirecting
// to the author's canonical address on success.
func (ac *AuthorsController) Create(c *gin.Context) {
	var form AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid author form")
		return
	}

	v := validator.New()
	birth, death := form.Validate(v)
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	author := &entities.Author{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		DateOfBirth: birth,
		DateOfDeath: death,
	}
	if err := ac.store.Create(author); err != nil {
		respondInternalError(c, err, "create author")
		return
	}

	c.Redirect(http.StatusSeeOther, author.DetailURL())
}

// UpdateForm returns the author's current values for editing.
func (ac *AuthorsController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	form := AuthorForm{FirstName: author.FirstName, LastName: author.LastName}
	if author.DateOfBirth != nil {
		form.DateOfBirth = author.DateOfBirth.Format(DateLayout)
	}
	if author.DateOfDeath != nil {
		form.DateOfDeath = author.DateOfDeath.Format(DateLayout)
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

// Update validates the submitted form and persists the changes.
func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	var form AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid author form")
		return
	}

	v := validator.New()
	birth, death := form.Validate(v)
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	author.FirstName = form.FirstName
	author.LastName = form.LastName
	author.DateOfBirth = birth
	author.DateOfDeath = death
	author.Books = nil // associations are not part of this form

	if err := ac.store.Update(author); err != nil {
		respondInternalError(c, err, "update author")
		return
	}

	c.Redirect(http.StatusSeeOther, author.DetailURL())
}

// DeleteConfirm presents the delete confirmation payload.
func (ac *AuthorsController) DeleteConfirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"author":    newAuthorView(*author),
		"num_books": len(author.Books),
	})
}

// Delete removes the author. Books keep existing with no author. If the
// removal is blocked by a referential constraint the caller lands back on the
// confirmation view instead of an error page; anything else is fatal.
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ac.store.Delete(id)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/authors/")
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "author")
	case errors.Is(err, database.ErrReferentialViolation):
		c.Redirect(http.StatusSeeOther, "/author/delete/"+c.Param("id"))
	default:
		respondInternalError(c, err, "delete author")
	}
}
