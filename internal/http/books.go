package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validator"
)

// BookStore is the book data access used by the controller. Implemented by
// internal/database/books.Repository.
type BookStore interface {
	Create(book *entities.Book) error
	Update(book *entities.Book) error
	Delete(id uint) error
	GetByID(id uint) (*entities.Book, error)
	List(page, pageSize int) ([]entities.Book, int64, error)
}

// GenreResolver resolves a form's genre id selection into genre rows.
// Implemented by internal/database/genres.Repository.
type GenreResolver interface {
	GetByIDs(ids []uint) ([]entities.Genre, error)
}

// BooksController serves the book list, detail and mutation endpoints.
type BooksController struct {
	store    BookStore
	genres   GenreResolver
	pageSize int
}

// NewBooksController creates a new books controller.
func NewBooksController(store BookStore, genres GenreResolver, pageSize int) *BooksController {
	return &BooksController{store: store, genres: genres, pageSize: pageSize}
}

// bookView is the payload shape for a single book.
type bookView struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Author       *string  `json:"author"`
	Summary      string   `json:"summary"`
	ISBN         string   `json:"isbn"`
	Genres       []string `json:"genres"`
	DisplayGenre string   `json:"display_genre"`
	URL          string   `json:"url"`
}

func newBookView(b entities.Book) bookView {
	var author *string
	if b.Author != nil {
		name := b.Author.DisplayName()
		author = &name
	}
	genres := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		genres = append(genres, g.Name)
	}
	return bookView{
		ID:           b.ID,
		Title:        b.Title,
		Author:       author,
		Summary:      b.Summary,
		ISBN:         b.ISBN,
		Genres:       genres,
		DisplayGenre: b.DisplayGenre(),
		URL:          b.DetailURL(),
	}
}

// List returns one page of books with their authors resolved.
func (bc *BooksController) List(c *gin.Context) {
	page := parsePageParam(c)
	books, total, err := bc.store.List(page, bc.pageSize)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	views := make([]bookView, 0, len(books))
	for _, b := range books {
		views = append(views, newBookView(b))
	}
	c.JSON(http.StatusOK, paginated(views, page, bc.pageSize, total))
}

// Detail returns a single book, its copies and the status code legend used
// to render copy availability.
func (bc *BooksController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	instances := make([]gin.H, 0, len(book.Instances))
	for _, instance := range book.Instances {
		instances = append(instances, gin.H{
			"id":       instance.ID,
			"imprint":  instance.Imprint,
			"status":   instance.Status,
			"due_back": formatDate(instance.DueBack),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"book":          newBookView(*book),
		"instances":     instances,
		"status_labels": entities.LoanStatusLabels,
	})
}

// CreateForm returns the blank book form payload.
func (bc *BooksController) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": BookForm{}})
}

// resolveGenres maps the form's genre ids to rows, recording a field error
// when any id is unknown.
func (bc *BooksController) resolveGenres(v *validator.Validator, ids []uint) []entities.Genre {
	genres, err := bc.genres.GetByIDs(ids)
	if err == nil && len(genres) != len(ids) {
		v.AddError("genre_ids", "contains an unknown genre")
	}
	return genres
}

// Create validates the submitted form and persists a new book, redirecting
// to the book's canonical address on success. A duplicate ISBN is a field
// error, not a server error, and writes nothing.
func (bc *BooksController) Create(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid book form")
		return
	}

	v := validator.New()
	form.Validate(v)
	genres := bc.resolveGenres(v, form.GenreIDs)
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	book := &entities.Book{
		Title:    form.Title,
		AuthorID: form.AuthorID,
		Summary:  form.Summary,
		ISBN:     form.ISBN,
		Genres:   genres,
	}
	err := bc.store.Create(book)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, book.DetailURL())
	case errors.Is(err, database.ErrDuplicate):
		v.AddError("isbn", "a book with this ISBN already exists")
		respondValidationError(c, v.Errors)
	case errors.Is(err, database.ErrReferentialViolation):
		v.AddError("author_id", "unknown author")
		respondValidationError(c, v.Errors)
	default:
		respondInternalError(c, err, "create book")
	}
}

// UpdateForm returns the book's current values for editing.
func (bc *BooksController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	genreIDs := make([]uint, 0, len(book.Genres))
	for _, g := range book.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	c.JSON(http.StatusOK, gin.H{"form": BookForm{
		Title:    book.Title,
		AuthorID: book.AuthorID,
		Summary:  book.Summary,
		ISBN:     book.ISBN,
		GenreIDs: genreIDs,
	}})
}

// Update validates the submitted form and persists the changes, replacing
// the genre set.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid book form")
		return
	}

	v := validator.New()
	form.Validate(v)
	genres := bc.resolveGenres(v, form.GenreIDs)
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	book.Title = form.Title
	book.AuthorID = form.AuthorID
	book.Author = nil
	book.Summary = form.Summary
	book.ISBN = form.ISBN
	book.Genres = genres
	book.Instances = nil // copies are never written through this form

	err = bc.store.Update(book)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, book.DetailURL())
	case errors.Is(err, database.ErrDuplicate):
		v.AddError("isbn", "a book with this ISBN already exists")
		respondValidationError(c, v.Errors)
	case errors.Is(err, database.ErrReferentialViolation):
		v.AddError("author_id", "unknown author")
		respondValidationError(c, v.Errors)
	default:
		respondInternalError(c, err, "update book")
	}
}

// DeleteConfirm presents the delete confirmation payload, including how many
// copies still block the delete.
func (bc *BooksController) DeleteConfirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book":          newBookView(*book),
		"num_instances": len(book.Instances),
	})
}

// Delete removes the book. While copies of it exist the delete is refused
// and the caller is sent back to the confirmation view; unrelated failures
// stay fatal so they are never masked.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.Delete(id)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/books/")
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, database.ErrReferentialViolation):
		c.Redirect(http.StatusSeeOther, "/book/delete/"+c.Param("id"))
	default:
		respondInternalError(c, err, "delete book")
	}
}
