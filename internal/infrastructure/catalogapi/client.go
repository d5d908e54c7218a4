// internal/infrastructure/catalogapi/client.go
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// maxErrorBody caps how much of a failed response is kept in APIError
const maxErrorBody = 1024

// APIError is returned when the catalog answers with a non-2xx status
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client talks to the remote catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a new catalog API client
func NewClient(cfg config.CatalogConfig, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// ListBooks lists books, filtered by params
func (c *Client) ListBooks(ctx context.Context, params url.Values) ([]catalog.Book, error) {
	var books []catalog.Book
	if err := c.get(ctx, "/books", params, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches a book by id
func (c *Client) GetBook(ctx context.Context, id int64) (catalog.Book, error) {
	var book catalog.Book
	if err := c.get(ctx, "/books/"+strconv.FormatInt(id, 10), nil, &book); err != nil {
		return catalog.Book{}, err
	}
	return book, nil
}

func (c *Client) ListAuthors(ctx context.Context) ([]catalog.Reference, error) {
	return c.references(ctx, "/authors")
}

func (c *Client) ListCategories(ctx context.Context) ([]catalog.Reference, error) {
	return c.references(ctx, "/categories")
}

func (c *Client) ListPublishers(ctx context.Context) ([]catalog.Reference, error) {
	return c.references(ctx, "/publishers")
}

// ReviewsByBook returns the reviews document of a book as sent by the API
func (c *Client) ReviewsByBook(ctx context.Context, bookID int64) (json.RawMessage, error) {
	var raw json.RawMessage
	params := url.Values{"bookId": {strconv.FormatInt(bookID, 10)}}
	if err := c.get(ctx, "/reviews/search", params, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// LibraryInfo returns the store information document as sent by the API
func (c *Client) LibraryInfo(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/library", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) references(ctx context.Context, endpoint string) ([]catalog.Reference, error) {
	var refs []catalog.Reference
	if err := c.get(ctx, endpoint, nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// get performs a GET request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("❌ Catalog API error")
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

var _ catalog.API = (*Client)(nil)
