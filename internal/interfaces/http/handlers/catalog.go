// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/infrastructure/catalogapi"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles book browsing endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

// ListBooks handles GET /books with the advanced search filters
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	var filters catalog.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	books, err := h.catalog.Search(c.Request.Context(), filters)
	if err != nil {
		h.upstreamError(c, err, "Failed to load books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    books,
		"count":   len(books),
		"filters": filters,
	})
}

// GetBook handles GET /books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id", "book ID")
	if !ok {
		return
	}

	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err, "Failed to load book")
		return
	}

	respond(c, http.StatusOK, "Book retrieved successfully", book)
}

// GetReviews handles GET /books/:id/reviews
func (h *CatalogHandler) GetReviews(c *gin.Context) {
	id, ok := parseID(c, "id", "book ID")
	if !ok {
		return
	}

	reviews, err := h.catalog.Reviews(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err, "Failed to load reviews")
		return
	}

	respond(c, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *CatalogHandler) ListAuthors(c *gin.Context) {
	authors, err := h.catalog.Authors(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "Failed to load authors")
		return
	}
	respond(c, http.StatusOK, "Authors retrieved successfully", authors)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "Failed to load categories")
		return
	}
	respond(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) ListPublishers(c *gin.Context) {
	publishers, err := h.catalog.Publishers(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "Failed to load publishers")
		return
	}
	respond(c, http.StatusOK, "Publishers retrieved successfully", publishers)
}

// SearchOptions handles GET /search/options
func (h *CatalogHandler) SearchOptions(c *gin.Context) {
	opts, err := h.catalog.SearchOptions(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "Failed to load search options")
		return
	}
	respond(c, http.StatusOK, "Search options retrieved successfully", opts)
}

// LibraryInfo handles GET /library
func (h *CatalogHandler) LibraryInfo(c *gin.Context) {
	info, err := h.catalog.LibraryInfo(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "Failed to load library information")
		return
	}
	respond(c, http.StatusOK, "Library information retrieved successfully", info)
}

// LandingImage redirects to the landing image
func (h *CatalogHandler) LandingImage(c *gin.Context) {
	c.Redirect(http.StatusFound, h.catalog.LandingURL())
}

// CarouselImage redirects to a carousel image
func (h *CatalogHandler) CarouselImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 {
		fail(c, http.StatusBadRequest, "Invalid image index")
		return
	}
	c.Redirect(http.StatusFound, h.catalog.CarouselURL(index))
}

// upstreamError maps catalog failures: a missing resource stays a 404,
// everything else is a bad gateway.
func (h *CatalogHandler) upstreamError(c *gin.Context, err error, message string) {
	var apiErr *catalogapi.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		fail(c, http.StatusNotFound, "Not found")
		return
	}

	middleware.GetLogger(c).WithError(err).Error(message)
	fail(c, http.StatusBadGateway, message)
}
