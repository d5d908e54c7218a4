// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/money"
)

// CheckoutHandler handles the simulated checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutService}
}

// OrderResponse is a confirmed order with its display total
type OrderResponse struct {
	*checkout.Order
	FormattedTotal string `json:"formatted_total"`
	ItemCount      int    `json:"item_count"`
}

// GetForm handles GET /checkout/form
func (h *CheckoutHandler) GetForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	form, err := h.checkout.LoadForm(c.Request.Context(), sess)
	if err != nil {
		h.actionFailed(c, err, "Failed to load checkout form")
		return
	}

	respond(c, http.StatusOK, "Checkout form retrieved successfully", form)
}

// SaveForm handles PUT /checkout/form. Only the sent fields change.
func (h *CheckoutHandler) SaveForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var patch checkout.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	form, err := h.checkout.SaveForm(c.Request.Context(), sess, patch)
	if err != nil {
		h.actionFailed(c, err, "Failed to save checkout form")
		return
	}

	respond(c, http.StatusOK, "Checkout form saved successfully", form)
}

// Continue handles POST /checkout/continue
func (h *CheckoutHandler) Continue(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	form, err := h.checkout.Continue(c.Request.Context(), sess)
	if err != nil {
		var fieldErrs checkout.FieldErrors
		if errors.As(err, &fieldErrs) {
			failWith(c, http.StatusUnprocessableEntity, gin.H{
				"error":  "Please complete all fields",
				"fields": fieldErrs,
				"form":   form,
			})
			return
		}
		h.actionFailed(c, err, "Failed to validate checkout form")
		return
	}

	respond(c, http.StatusOK, "Shipping details confirmed", form)
}

// Confirm handles POST /checkout/confirm
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	order, err := h.checkout.Confirm(c.Request.Context(), sess)
	if err != nil {
		var fieldErrs checkout.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			failWith(c, http.StatusUnprocessableEntity, gin.H{
				"error":  "Please complete all fields",
				"fields": fieldErrs,
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			fail(c, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			fail(c, http.StatusGatewayTimeout, "Request timeout")
		default:
			h.actionFailed(c, err, "Failed to confirm order")
		}
		return
	}

	respond(c, http.StatusCreated, "Order confirmed", orderResponse(order))
}

// LastOrder handles GET /checkout/order
func (h *CheckoutHandler) LastOrder(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	order, err := h.checkout.LastOrder(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, checkout.ErrNoOrder) {
			fail(c, http.StatusNotFound, "No confirmed order")
			return
		}
		h.actionFailed(c, err, "Failed to load order")
		return
	}

	respond(c, http.StatusOK, "Order retrieved successfully", orderResponse(order))
}

// Receipt handles GET /checkout/receipt
func (h *CheckoutHandler) Receipt(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	pdf, order, err := h.checkout.Receipt(c.Request.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoOrder):
			fail(c, http.StatusNotFound, "No confirmed order")
		case errors.Is(err, checkout.ErrReceiptsDisabled):
			fail(c, http.StatusNotImplemented, "Receipts are not available")
		default:
			h.actionFailed(c, err, "Failed to generate receipt")
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recibo-%s.pdf"`, order.Number))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *CheckoutHandler) actionFailed(c *gin.Context, err error, message string) {
	middleware.GetLogger(c).WithError(err).Error(message)
	fail(c, http.StatusInternalServerError, msgActionFailed)
}

func orderResponse(order *checkout.Order) OrderResponse {
	return OrderResponse{
		Order:          order,
		FormattedTotal: money.FromCode(order.Total, order.Currency).Format(),
		ItemCount:      order.ItemCount(),
	}
}
