// internal/domain/checkout/entity.go
package checkout

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
)

// Keys stored in the session namespace
const (
	KeyForm      = "checkoutData"
	KeyLastOrder = "lastOrder"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoOrder          = errors.New("no confirmed order")
	ErrReceiptsDisabled = errors.New("receipts are disabled")
)

// ShippingForm is the shipping step of checkout
type ShippingForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// FormPatch holds the form fields to change. Nil fields are kept.
type FormPatch struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	ZipCode  *string `json:"zipCode"`
	Country  *string `json:"country"`
}

// Apply merges the patch into the form
func (p FormPatch) Apply(form ShippingForm) ShippingForm {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&form.FullName, p.FullName)
	set(&form.Email, p.Email)
	set(&form.Phone, p.Phone)
	set(&form.Address, p.Address)
	set(&form.City, p.City)
	set(&form.ZipCode, p.ZipCode)
	set(&form.Country, p.Country)
	return form
}

// FieldErrors maps a form field to its validation message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "invalid shipping form: " + strings.Join(fields, ", ")
}

// Validate reports every required field left empty
func (f ShippingForm) Validate() FieldErrors {
	required := []struct {
		field, value, message string
	}{
		{"fullName", f.FullName, "Full name is required"},
		{"email", f.Email, "Email is required"},
		{"phone", f.Phone, "Phone is required"},
		{"address", f.Address, "Address is required"},
		{"city", f.City, "City is required"},
		{"zipCode", f.ZipCode, "Zip code is required"},
		{"country", f.Country, "Country is required"},
	}

	errs := FieldErrors{}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.message
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Order is a confirmed checkout
type Order struct {
	Number   string          `json:"number"`
	Lines    cart.Cart       `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Shipping ShippingForm    `json:"shipping"`
	PlacedAt time.Time       `json:"placed_at"`
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	return o.Lines.ItemCount()
}
