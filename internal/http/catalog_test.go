package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestCatalogIndex(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	author := &entities.Author{FirstName: "Mary", LastName: "Shelley"}
	require.NoError(t, ts.authors.Create(author))

	book := &entities.Book{Title: "Frankenstein", AuthorID: &author.ID, ISBN: "9780141439471"}
	require.NoError(t, ts.books.Create(book))

	require.NoError(t, ts.instances.Create(&entities.BookInstance{
		BookID: book.ID, Status: entities.StatusAvailable,
	}))
	require.NoError(t, ts.instances.Create(&entities.BookInstance{
		BookID: book.ID, Status: entities.StatusOnLoan,
	}))
	require.NoError(t, ts.instances.Create(&entities.BookInstance{
		BookID: book.ID, Status: entities.StatusMaintenance,
	}))

	w := ts.request(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload["num_books"])
	assert.Equal(t, 1, payload["num_authors"])
	assert.Equal(t, 3, payload["num_instances"])
	assert.Equal(t, 1, payload["num_instances_available"])
	assert.Equal(t, 0, payload["num_visits"])
}

func TestCatalogIndexVisitCounter(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	// First visit of a fresh session reports 0 and sets the session cookie.
	first := ts.request(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &payload))
	assert.Equal(t, 0, payload["num_visits"])

	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies, "first visit should establish a session")

	// Returning with the cookie counts the earlier visit.
	second := ts.request(http.MethodGet, "/", nil, cookies)
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload["num_visits"])

	// A different client starts from zero again.
	fresh := ts.request(http.MethodGet, "/", nil, nil)
	require.NoError(t, json.Unmarshal(fresh.Body.Bytes(), &payload))
	assert.Equal(t, 0, payload["num_visits"])
}

func TestPing(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	w := ts.request(http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestHealth(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	w := ts.request(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "ok", payload.Checks["database"])
}
