package catalogapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/infrastructure/catalogapi"
)

type route struct {
	status int
	body   string
}

type requestLog struct {
	mu   sync.Mutex
	uris []string
}

func (l *requestLog) add(uri string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uris = append(l.uris, uri)
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.uris...)
}

func newServer(t *testing.T, routes map[string]route) (*catalogapi.Client, *requestLog) {
	t.Helper()

	seen := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.add(r.URL.RequestURI())
		rt, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(server.Close)

	log, _ := test.NewNullLogger()
	client := catalogapi.NewClient(config.CatalogConfig{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, log)
	return client, seen
}

func TestClient_ListBooks(t *testing.T) {
	client, seen := newServer(t, map[string]route{
		"/books": {status: http.StatusOK, body: `[
			{"id": 1, "title": "Niebla", "price": 9.95, "author": "Miguel de Unamuno", "bestSeller": 1},
			{"id": 2, "title": "Fortunata y Jacinta", "price": "21.50", "author": {"id": 4, "name": "Benito Pérez Galdós"}, "new": true}
		]`},
	})

	books, err := client.ListBooks(t.Context(), url.Values{"title": {"niebla"}, "new": {"1"}})
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, []string{"/books?new=1&title=niebla"}, seen.all())
	assert.Equal(t, "Niebla", books[0].Title)
	assert.True(t, decimal.RequireFromString("9.95").Equal(books[0].Price))
	assert.Equal(t, catalog.NameRef("Miguel de Unamuno"), *books[0].Author)
	assert.True(t, bool(books[0].BestSeller))
	assert.Equal(t, catalog.ObjectRef(4, "Benito Pérez Galdós"), *books[1].Author)
	assert.True(t, bool(books[1].New))
}

func TestClient_GetBook(t *testing.T) {
	client, seen := newServer(t, map[string]route{
		"/books/42": {status: http.StatusOK, body: `{"id": 42, "title": "Marianela", "price": 7}`},
	})

	book, err := client.GetBook(t.Context(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), book.ID)
	assert.Equal(t, []string{"/books/42"}, seen.all())
}

func TestClient_References(t *testing.T) {
	client, _ := newServer(t, map[string]route{
		"/authors":    {status: http.StatusOK, body: `[{"id": 1, "name": "Clarín"}]`},
		"/categories": {status: http.StatusOK, body: `[{"id": 2, "name": "Novela"}, {"id": 3, "name": "Poesía"}]`},
		"/publishers": {status: http.StatusOK, body: `[]`},
	})

	authors, err := client.ListAuthors(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Reference{{ID: 1, Name: "Clarín"}}, authors)

	categories, err := client.ListCategories(t.Context())
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	publishers, err := client.ListPublishers(t.Context())
	require.NoError(t, err)
	assert.Empty(t, publishers)
}

func TestClient_RawDocuments(t *testing.T) {
	client, seen := newServer(t, map[string]route{
		"/reviews/search": {status: http.StatusOK, body: `[{"rating": 5, "comment": "Imprescindible"}]`},
		"/library":        {status: http.StatusOK, body: `{"name": "Librería FPR", "city": "Madrid"}`},
	})

	reviews, err := client.ReviewsByBook(t.Context(), 9)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"rating": 5, "comment": "Imprescindible"}]`, string(reviews))

	info, err := client.LibraryInfo(t.Context())
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Librería FPR", "city": "Madrid"}`, string(info))

	assert.Equal(t, []string{"/reviews/search?bookId=9", "/library"}, seen.all())
}

func TestClient_Errors(t *testing.T) {
	client, _ := newServer(t, map[string]route{
		"/books/1": {status: http.StatusInternalServerError, body: `{"error":"db down"}`},
		"/books/2": {status: http.StatusOK, body: `{"id": "two"`},
	})

	tests := []struct {
		name      string
		id        int64
		wantAPI   *catalogapi.APIError
		wantError string
	}{
		{
			name: "server error: api error",
			id:   1,
			wantAPI: &catalogapi.APIError{
				Endpoint:   "/books/1",
				StatusCode: http.StatusInternalServerError,
				Body:       `{"error":"db down"}`,
			},
		},
		{
			name:    "not found: api error",
			id:      3,
			wantAPI: &catalogapi.APIError{Endpoint: "/books/3", StatusCode: http.StatusNotFound, Body: "404 page not found\n"},
		},
		{
			name:      "malformed body: error",
			id:        2,
			wantError: "failed to decode /books/2 response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetBook(t.Context(), tt.id)
			require.Error(t, err)

			if tt.wantAPI != nil {
				var apiErr *catalogapi.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantAPI, apiErr)
				return
			}
			assert.ErrorContains(t, err, tt.wantError)
		})
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	client, _ := newServer(t, map[string]route{"/library": {status: http.StatusOK, body: `{}`}})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.LibraryInfo(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
