package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/auth"
)

// BookCounter exposes the book count for the overview page.
type BookCounter interface {
	Count() (int64, error)
}

// AuthorCounter exposes the author count for the overview page.
type AuthorCounter interface {
	Count() (int64, error)
}

// InstanceCounter exposes the copy counts for the overview page.
type InstanceCounter interface {
	Count() (int64, error)
	CountAvailable() (int64, error)
}

// CatalogController serves the catalog overview.
type CatalogController struct {
	books     BookCounter
	authors   AuthorCounter
	instances InstanceCounter
	sessions  *auth.SessionManager
}

// NewCatalogController creates the overview controller.
func NewCatalogController(books BookCounter, authors AuthorCounter, instances InstanceCounter, sessions *auth.SessionManager) *CatalogController {
	return &CatalogController{
		books:     books,
		authors:   authors,
		instances: instances,
		sessions:  sessions,
	}
}

// Index reports the headline catalog counts plus the per-session visit
// counter. The counter reports the value as of before this visit, so a brand
// new session sees 0.
func (cc *CatalogController) Index(c *gin.Context) {
	numBooks, err := cc.books.Count()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}
	numInstances, err := cc.instances.Count()
	if err != nil {
		respondInternalError(c, err, "count instances")
		return
	}
	numAvailable, err := cc.instances.CountAvailable()
	if err != nil {
		respondInternalError(c, err, "count available instances")
		return
	}
	numAuthors, err := cc.authors.Count()
	if err != nil {
		respondInternalError(c, err, "count authors")
		return
	}

	numVisits := cc.sessions.BumpVisits(c.Request)

	c.JSON(http.StatusOK, gin.H{
		"num_books":               numBooks,
		"num_instances":           numInstances,
		"num_instances_available": numAvailable,
		"num_authors":             numAuthors,
		"num_visits":              numVisits,
	})
}
