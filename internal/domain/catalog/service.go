// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// API is the remote catalog the service reads from
type API interface {
	ListBooks(ctx context.Context, params url.Values) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	ListAuthors(ctx context.Context) ([]Reference, error)
	ListCategories(ctx context.Context) ([]Reference, error)
	ListPublishers(ctx context.Context) ([]Reference, error)
	ReviewsByBook(ctx context.Context, bookID int64) (json.RawMessage, error)
	LibraryInfo(ctx context.Context) (json.RawMessage, error)
}

// SearchOptions holds the choices offered by the advanced search form
type SearchOptions struct {
	Authors    []Reference `json:"authors"`
	Categories []Reference `json:"categories"`
	Publishers []Reference `json:"publishers"`
}

// Service handles catalog reads
type Service struct {
	api          API
	imageBaseURL string
	log          logrus.FieldLogger
}

// NewService creates a new catalog service
func NewService(api API, imageBaseURL string, log logrus.FieldLogger) *Service {
	return &Service{
		api:          api,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		log:          log,
	}
}

// Search lists books matching the active filters
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Book, error) {
	books, err := s.api.ListBooks(ctx, filters.Values())
	if err != nil {
		s.log.WithError(err).WithField("filters", filters.Values().Encode()).Error("Error fetching books")
		return nil, fmt.Errorf("api.ListBooks: %w", err)
	}

	if books == nil {
		books = []Book{}
	}
	for i := range books {
		s.withCover(&books[i])
	}

	return books, nil
}

// GetBook fetches a single book
func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	book, err := s.api.GetBook(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("book_id", id).Error("Error loading book")
		return Book{}, fmt.Errorf("api.GetBook: %w", err)
	}

	s.withCover(&book)
	return book, nil
}

// SearchOptions loads authors, categories and publishers concurrently.
// Any failing list fails the whole call.
func (s *Service) SearchOptions(ctx context.Context) (*SearchOptions, error) {
	var opts SearchOptions

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		authors, err := s.api.ListAuthors(gctx)
		if err != nil {
			return fmt.Errorf("api.ListAuthors: %w", err)
		}
		opts.Authors = authors
		return nil
	})
	g.Go(func() error {
		categories, err := s.api.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("api.ListCategories: %w", err)
		}
		opts.Categories = categories
		return nil
	})
	g.Go(func() error {
		publishers, err := s.api.ListPublishers(gctx)
		if err != nil {
			return fmt.Errorf("api.ListPublishers: %w", err)
		}
		opts.Publishers = publishers
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("Error loading search options")
		return nil, err
	}

	return &opts, nil
}

// Authors lists the catalog authors
func (s *Service) Authors(ctx context.Context) ([]Reference, error) {
	authors, err := s.api.ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.ListAuthors: %w", err)
	}
	return nonNil(authors), nil
}

// Categories lists the catalog categories
func (s *Service) Categories(ctx context.Context) ([]Reference, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.ListCategories: %w", err)
	}
	return nonNil(categories), nil
}

// Publishers lists the catalog publishers
func (s *Service) Publishers(ctx context.Context) ([]Reference, error) {
	publishers, err := s.api.ListPublishers(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.ListPublishers: %w", err)
	}
	return nonNil(publishers), nil
}

func nonNil(refs []Reference) []Reference {
	if refs == nil {
		return []Reference{}
	}
	return refs
}

// Reviews returns the raw reviews of a book
func (s *Service) Reviews(ctx context.Context, bookID int64) (json.RawMessage, error) {
	reviews, err := s.api.ReviewsByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("api.ReviewsByBook: %w", err)
	}
	return reviews, nil
}

// LibraryInfo returns the raw store information document
func (s *Service) LibraryInfo(ctx context.Context) (json.RawMessage, error) {
	info, err := s.api.LibraryInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.LibraryInfo: %w", err)
	}
	return info, nil
}

// CoverURL returns the absolute cover image URL of a book
func (s *Service) CoverURL(bookID int64) string {
	return fmt.Sprintf("%s/portadas/%d.jpg", s.imageBaseURL, bookID)
}

// CarouselURL returns the absolute URL of a carousel image
func (s *Service) CarouselURL(index int) string {
	return fmt.Sprintf("%s/carrusel/%d.jpg", s.imageBaseURL, index)
}

// LandingURL returns the absolute URL of the landing image
func (s *Service) LandingURL() string {
	return s.imageBaseURL + "/landing.jpg"
}

func (s *Service) withCover(b *Book) {
	if b.Cover == "" {
		b.Cover = s.CoverURL(b.ID)
	}
}
