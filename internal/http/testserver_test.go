package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/database/authors"
	"github.com/mrlokans/library-catalog/internal/database/books"
	"github.com/mrlokans/library-catalog/internal/database/genres"
	"github.com/mrlokans/library-catalog/internal/database/instances"
)

const testPassword = "correct-horse-battery"

// testServer wires a real router against a throwaway database so handler
// tests exercise the same stack as production, minus CSRF.
type testServer struct {
	t      *testing.T
	router *gin.Engine

	db        *database.Database
	auth      *auth.Service
	authors   *authors.Repository
	books     *books.Repository
	genres    *genres.Repository
	instances *instances.Repository
}

func newTestServer(t *testing.T) (*testServer, func()) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_http_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authCfg := config.Auth{SessionLifetime: time.Hour, BcryptCost: 4}
	service := auth.NewService(db.DB, authCfg)

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	middleware := auth.NewMiddleware(service, sessions)

	authorRepo := authors.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)
	instanceRepo := instances.NewRepository(db.DB)

	router := NewRouter(RouterConfig{
		Database:        db,
		Authors:         authorRepo,
		Books:           bookRepo,
		Genres:          genreRepo,
		Instances:       instanceRepo,
		BookCounter:     bookRepo,
		AuthorCounter:   authorRepo,
		InstanceCounter: instanceRepo,
		AuthService:     service,
		AuthMiddleware:  middleware,
		SessionManager:  sessions,
		Catalog: config.Catalog{
			PageSize:            10,
			RenewalDefaultWeeks: 3,
			RenewalMaxWeeks:     4,
		},
		Version: "test",
	})

	ts := &testServer{
		t:         t,
		router:    router,
		db:        db,
		auth:      service,
		authors:   authorRepo,
		books:     bookRepo,
		genres:    genreRepo,
		instances: instanceRepo,
	}
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return ts, cleanup
}

// request runs one request through the router. Form values are sent URL
// encoded; cookies carry session state between requests.
func (ts *testServer) request(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// createUser registers a user with the given permissions, ready to log in
// with testPassword.
func (ts *testServer) createUser(username string, permissions ...string) uint {
	user, err := ts.auth.CreateUser(username, username+"@example.com", testPassword, permissions...)
	require.NoError(ts.t, err)
	return user.ID
}

// login performs a real login request and returns the session cookies.
func (ts *testServer) login(username string) []*http.Cookie {
	form := url.Values{"username": {username}, "password": {testPassword}}
	w := ts.request(http.MethodPost, "/login", form, nil)
	require.Equal(ts.t, http.StatusSeeOther, w.Code, "login failed: %s", w.Body.String())
	return w.Result().Cookies()
}
