package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

func TestRefJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     catalog.Ref
		wantJSON string
	}{
		{
			name:     "plain string",
			input:    `"Miguel de Cervantes"`,
			want:     catalog.NameRef("Miguel de Cervantes"),
			wantJSON: `"Miguel de Cervantes"`,
		},
		{
			name:     "object with id",
			input:    `{"id": 7, "name": "Anaya"}`,
			want:     catalog.ObjectRef(7, "Anaya"),
			wantJSON: `{"id":7,"name":"Anaya"}`,
		},
		{
			name:     "object with name only",
			input:    `{"name": "Ana"}`,
			want:     catalog.ObjectRef(0, "Ana"),
			wantJSON: `{"name":"Ana"}`,
		},
		{
			name:     "null",
			input:    `null`,
			want:     catalog.Ref{},
			wantJSON: `""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got catalog.Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(out))
		})
	}

	var bad catalog.Ref
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestFlagJSON(t *testing.T) {
	tests := []struct {
		input string
		want  catalog.Flag
	}{
		{input: `true`, want: true},
		{input: `false`, want: false},
		{input: `1`, want: true},
		{input: `0`, want: false},
		{input: `"1"`, want: true},
		{input: `"0"`, want: false},
		{input: `""`, want: false},
		{input: `null`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got catalog.Flag
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad catalog.Flag
	assert.Error(t, json.Unmarshal([]byte(`"yes please"`), &bad))
}

func TestBookJSON(t *testing.T) {
	payload := `{
		"id": 12,
		"title": "El Quijote",
		"price": 19.95,
		"author": {"id": 3, "name": "Cervantes"},
		"publisher": "Cátedra",
		"category": {"id": 1, "name": "Clásicos"},
		"isbn": "978-84-376-0494-7",
		"year": 1605,
		"rating": 4.5,
		"stock": 3,
		"new": 0,
		"bestSeller": 1,
		"description": "Novela"
	}`

	var book catalog.Book
	require.NoError(t, json.Unmarshal([]byte(payload), &book))

	assert.Equal(t, int64(12), book.ID)
	assert.True(t, decimal.RequireFromString("19.95").Equal(book.Price))
	assert.Equal(t, "Cervantes", book.AuthorName())
	assert.Equal(t, catalog.NameRef("Cátedra"), *book.Publisher)
	assert.Equal(t, catalog.ObjectRef(1, "Clásicos"), *book.Category)
	assert.False(t, bool(book.New))
	assert.True(t, bool(book.BestSeller))

	var noAuthor catalog.Book
	assert.Equal(t, "", noAuthor.AuthorName())
}
