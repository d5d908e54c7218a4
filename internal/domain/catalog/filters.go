// internal/domain/catalog/filters.go
package catalog

import (
	"net/url"
	"strings"
)

// SearchFilters is the advanced search form. Only active filters are sent
// to the catalog API.
type SearchFilters struct {
	Title       string `form:"title" json:"title,omitempty"`
	AuthorID    string `form:"authorId" json:"authorId,omitempty"`
	CategoryID  string `form:"categoryId" json:"categoryId,omitempty"`
	PublisherID string `form:"publisherId" json:"publisherId,omitempty"`
	New         bool   `form:"new" json:"new,omitempty"`
	BestSeller  bool   `form:"bestSeller" json:"bestSeller,omitempty"`
}

// Values returns the active filters as query parameters
func (f SearchFilters) Values() url.Values {
	values := url.Values{}

	if title := strings.TrimSpace(f.Title); title != "" {
		values.Set("title", title)
	}
	if f.AuthorID != "" {
		values.Set("authorId", f.AuthorID)
	}
	if f.CategoryID != "" {
		values.Set("categoryId", f.CategoryID)
	}
	if f.PublisherID != "" {
		values.Set("publisherId", f.PublisherID)
	}
	if f.New {
		values.Set("new", "1")
	}
	if f.BestSeller {
		values.Set("bestSeller", "1")
	}

	return values
}

// IsEmpty reports whether no filter is active
func (f SearchFilters) IsEmpty() bool {
	return len(f.Values()) == 0
}
