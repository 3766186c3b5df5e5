package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validator"
)

// GenreStore is the genre data access used by the controller. Implemented by
// internal/database/genres.Repository.
type GenreStore interface {
	Create(genre *entities.Genre) error
	Delete(id uint) error
	List() ([]entities.Genre, error)
	GetByIDs(ids []uint) ([]entities.Genre, error)
}

// GenresController serves the genre vocabulary endpoints.
type GenresController struct {
	store GenreStore
}

// NewGenresController creates a new genres controller.
func NewGenresController(store GenreStore) *GenresController {
	return &GenresController{store: store}
}

// List returns every genre ordered by name. The vocabulary is small enough
// that it is never paginated.
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.store.List()
	if err != nil {
		respondInternalError(c, err, "list genres")
		return
	}

	views := make([]gin.H, 0, len(genres))
	for _, g := range genres {
		views = append(views, gin.H{"id": g.ID, "name": g.Name})
	}
	c.JSON(http.StatusOK, gin.H{"genres": views})
}

// genreForm carries the submitted name for genre creation.
type genreForm struct {
	Name string `form:"name" json:"name"`
}

// Create validates and persists a new genre. Names are unique; a duplicate is
// a field error, not a server error.
func (gc *GenresController) Create(c *gin.Context) {
	var form genreForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid genre form")
		return
	}

	v := validator.New()
	v.Check(form.Name != "", "name", "must be provided")
	v.Check(len(form.Name) <= 200, "name", "must not exceed 200 characters")
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	genre := &entities.Genre{Name: form.Name}
	err := gc.store.Create(genre)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/genres/")
	case errors.Is(err, database.ErrDuplicate):
		v.AddError("name", "a genre with this name already exists")
		respondValidationError(c, v.Errors)
	default:
		respondInternalError(c, err, "create genre")
	}
}

// Delete removes a genre. Books referencing it simply lose the label.
func (gc *GenresController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := gc.store.Delete(id)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/genres/")
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "genre")
	default:
		respondInternalError(c, err, "delete genre")
	}
}
