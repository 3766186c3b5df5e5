package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
)

// RouterConfig bundles the dependencies for NewRouter. Stores are the
// interface types the controllers consume, so tests can swap them freely.
type RouterConfig struct {
	Database *database.Database

	Authors   AuthorStore
	Books     BookStore
	Genres    GenreStore
	Instances InstanceStore

	BookCounter     BookCounter
	AuthorCounter   AuthorCounter
	InstanceCounter InstanceCounter

	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	Catalog config.Catalog
	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.AuthMiddleware.LoadUser())

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	requireLogin := cfg.AuthMiddleware.RequireLogin()
	canMarkReturned := cfg.AuthMiddleware.RequirePermission(entities.PermCanMarkReturned)

	health := NewHealthController(cfg.Database, cfg.Version)
	catalog := NewCatalogController(cfg.BookCounter, cfg.AuthorCounter, cfg.InstanceCounter, cfg.SessionManager)
	books := NewBooksController(cfg.Books, cfg.Genres, cfg.Catalog.PageSize)
	authors := NewAuthorsController(cfg.Authors, cfg.Catalog.PageSize)
	genres := NewGenresController(cfg.Genres)
	loans := NewLoansController(cfg.Instances, LoansOptions{
		PageSize:     cfg.Catalog.PageSize,
		DefaultWeeks: cfg.Catalog.RenewalDefaultWeeks,
		MaxWeeks:     cfg.Catalog.RenewalMaxWeeks,
	})

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Catalog overview
	router.GET("/", catalog.Index)

	// Public listings and details
	router.GET("/books/", books.List)
	router.GET("/book/:id", books.Detail)
	router.GET("/authors/", authors.List)
	router.GET("/author/:id", authors.Detail)
	router.GET("/genres/", genres.List)

	// Loan listings
	router.GET("/mybooks/", requireLogin, loans.MyBooks)
	router.GET("/borrowed/", canMarkReturned, loans.AllBorrowed)

	// Loan lifecycle, librarian only
	router.GET("/book/:id/renew", canMarkReturned, loans.RenewPrompt)
	router.POST("/book/:id/renew", canMarkReturned, loans.Renew)
	router.POST("/instance/create", canMarkReturned, loans.CreateInstance)
	router.POST("/instance/:id/return", canMarkReturned, loans.Return)
	router.POST("/instance/:id/loan", canMarkReturned, loans.LoanOut)

	// Author management
	router.GET("/author/create", cfg.AuthMiddleware.RequirePermission(entities.PermAddAuthor), authors.CreateForm)
	router.POST("/author/create", cfg.AuthMiddleware.RequirePermission(entities.PermAddAuthor), authors.Create)
	router.GET("/author/update/:id", cfg.AuthMiddleware.RequirePermission(entities.PermChangeAuthor), authors.UpdateForm)
	router.POST("/author/update/:id", cfg.AuthMiddleware.RequirePermission(entities.PermChangeAuthor), authors.Update)
	router.GET("/author/delete/:id", cfg.AuthMiddleware.RequirePermission(entities.PermDeleteAuthor), authors.DeleteConfirm)
	router.POST("/author/delete/:id", cfg.AuthMiddleware.RequirePermission(entities.PermDeleteAuthor), authors.Delete)

	// Book management
	router.GET("/book/create", cfg.AuthMiddleware.RequirePermission(entities.PermAddBook), books.CreateForm)
	router.POST("/book/create", cfg.AuthMiddleware.RequirePermission(entities.PermAddBook), books.Create)
	router.GET("/book/update/:id", cfg.AuthMiddleware.RequirePermission(entities.PermChangeBook), books.UpdateForm)
	router.POST("/book/update/:id", cfg.AuthMiddleware.RequirePermission(entities.PermChangeBook), books.Update)
	router.GET("/book/delete/:id", cfg.AuthMiddleware.RequirePermission(entities.PermDeleteBook), books.DeleteConfirm)
	router.POST("/book/delete/:id", cfg.AuthMiddleware.RequirePermission(entities.PermDeleteBook), books.Delete)

	// Genre management
	router.POST("/genre/create", cfg.AuthMiddleware.RequirePermission(entities.PermAddGenre), genres.Create)
	router.POST("/genre/delete/:id", cfg.AuthMiddleware.RequirePermission(entities.PermDeleteGenre), genres.Delete)

	return router
}
