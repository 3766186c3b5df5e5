package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestGenresList(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	require.NoError(t, ts.genres.Create(&entities.Genre{Name: "Poetry"}))
	require.NoError(t, ts.genres.Create(&entities.Genre{Name: "Fantasy"}))

	w := ts.request(http.MethodGet, "/genres/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Genres, 2)
	assert.Equal(t, "Fantasy", payload.Genres[0].Name)
	assert.Equal(t, "Poetry", payload.Genres[1].Name)
}

func TestGenreCreate(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	ts.createUser("librarian", entities.PermAddGenre)
	cookies := ts.login("librarian")

	t.Run("requires permission", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/genre/create", url.Values{"name": {"Fantasy"}}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("creates a genre", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/genre/create", url.Values{"name": {"Fantasy"}}, cookies)
		require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
		assert.Equal(t, "/genres/", w.Header().Get("Location"))
	})

	t.Run("duplicate name is a field error", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/genre/create", url.Values{"name": {"Fantasy"}}, cookies)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var payload ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		details, ok := payload.Details.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, details, "name")
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/genre/create", url.Values{"name": {""}}, cookies)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGenreDelete(t *testing.T) {
	ts, cleanup := newTestServer(t)
	defer cleanup()

	ts.createUser("librarian", entities.PermDeleteGenre)
	cookies := ts.login("librarian")

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, ts.genres.Create(genre))
	book := &entities.Book{Title: "A Wizard of Earthsea", ISBN: "9780547773742", Genres: []entities.Genre{*genre}}
	require.NoError(t, ts.books.Create(book))

	w := ts.request(http.MethodPost, fmt.Sprintf("/genre/delete/%d", genre.ID), nil, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// The book simply loses the label.
	reloaded, err := ts.books.GetByID(book.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Genres)

	second := ts.request(http.MethodPost, fmt.Sprintf("/genre/delete/%d", genre.ID), nil, cookies)
	assert.Equal(t, http.StatusNotFound, second.Code)
}
