package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

func TestSearchFiltersValues(t *testing.T) {
	tests := []struct {
		name    string
		filters catalog.SearchFilters
		want    string
	}{
		{
			name:    "no filters",
			filters: catalog.SearchFilters{Title: "   "},
			want:    "",
		},
		{
			name:    "title is trimmed",
			filters: catalog.SearchFilters{Title: "  quijote "},
			want:    "title=quijote",
		},
		{
			name: "all filters",
			filters: catalog.SearchFilters{
				Title:       "a",
				AuthorID:    "1",
				CategoryID:  "2",
				PublisherID: "3",
				New:         true,
				BestSeller:  true,
			},
			want: "authorId=1&bestSeller=1&categoryId=2&new=1&publisherId=3&title=a",
		},
		{
			name:    "flags only",
			filters: catalog.SearchFilters{BestSeller: true},
			want:    "bestSeller=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Values().Encode())
			assert.Equal(t, tt.want == "", tt.filters.IsEmpty())
		})
	}
}
