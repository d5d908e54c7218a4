// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/money"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	catalog  *catalog.Service
	currency string
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalogService *catalog.Service, currency string) *CartHandler {
	return &CartHandler{
		catalog:  catalogService,
		currency: currency,
	}
}

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	BookID int64 `json:"book_id" binding:"required,gt=0"`
}

// UpdateItemRequest is the body of PUT /cart/items/:id. The quantity may be
// a JSON number or the raw text typed by the user.
type UpdateItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// CartResponse is the cart as shown by the cart screen
type CartResponse struct {
	Items          cart.Cart `json:"items"`
	ItemCount      int       `json:"item_count"`
	Total          string    `json:"total"`
	FormattedTotal string    `json:"formatted_total"`
	State          string    `json:"state"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	respond(c, http.StatusOK, "Cart retrieved successfully", h.view(sess.Cart()))
}

// AddItem handles POST /cart/items. Anonymous callers are asked to sign in;
// the book is kept and added right after login.
func (h *CartHandler) AddItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	log := middleware.GetLogger(c).WithField("book_id", req.BookID)

	book, err := h.catalog.GetBook(ctx, req.BookID)
	if err != nil {
		log.WithError(err).Error("Failed to load book for cart")
		fail(c, http.StatusBadGateway, "Failed to load book")
		return
	}

	if !sess.IsSignedIn() {
		if err := sess.SetPendingBook(ctx, book); err != nil {
			log.WithError(err).Error("Failed to save pending book")
			fail(c, http.StatusInternalServerError, msgActionFailed)
			return
		}
		if err := sess.SetReturnRoute(ctx, session.RouteBookList); err != nil {
			log.WithError(err).Warn("Failed to save return route")
		}

		failWith(c, http.StatusUnauthorized, gin.H{
			"error":        "Sign in required",
			"return_route": session.RouteBookList,
			"pending_book": book.ID,
		})
		return
	}

	if err := sess.Cart().AddItem(ctx, book); err != nil {
		log.WithError(err).Error("Failed to add item to cart")
		if errors.Is(err, cart.ErrInvalidPrice) {
			fail(c, http.StatusUnprocessableEntity, "Invalid book price")
			return
		}
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Item added to cart successfully", h.view(sess.Cart()))
}

// UpdateItem handles PUT /cart/items/:id. A quantity of zero or less removes
// the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "book ID")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	raw, err := quantityText(req.Quantity)
	if err == nil {
		err = sess.Cart().UpdateQuantity(c.Request.Context(), id, raw)
	}
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			fail(c, http.StatusBadRequest, "Invalid quantity")
			return
		}
		middleware.GetLogger(c).WithError(err).WithField("book_id", id).Error("Failed to update cart item")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Cart item updated successfully", h.view(sess.Cart()))
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	id, ok := parseID(c, "id", "book ID")
	if !ok {
		return
	}

	if err := sess.Cart().RemoveItem(c.Request.Context(), id); err != nil {
		middleware.GetLogger(c).WithError(err).WithField("book_id", id).Error("Failed to remove cart item")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Item removed from cart successfully", h.view(sess.Cart()))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := sess.Cart().Clear(c.Request.Context()); err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to clear cart")
		fail(c, http.StatusInternalServerError, msgActionFailed)
		return
	}

	respond(c, http.StatusOK, "Cart cleared successfully", h.view(sess.Cart()))
}

func (h *CartHandler) view(store *cart.Store) CartResponse {
	items := store.Cart()
	if items == nil {
		items = cart.Cart{}
	}
	total := items.Total()

	return CartResponse{
		Items:          items,
		ItemCount:      items.ItemCount(),
		Total:          total.StringFixed(2),
		FormattedTotal: money.FromCode(total, h.currency).Format(),
		State:          store.State().String(),
	}
}

// quantityText turns the JSON quantity into the text the cart parses
func quantityText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", cart.ErrInvalidQuantity
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", cart.ErrInvalidQuantity
		}
		return text, nil
	}
	return string(raw), nil
}
