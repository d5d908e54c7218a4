// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// CartLine is one book in the cart with its quantity
type CartLine struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Author   catalog.Ref     `json:"author"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Cover    string          `json:"cover,omitempty"`
}

// NewLine builds a line with quantity 1 from a catalog book
func NewLine(book catalog.Book) CartLine {
	line := CartLine{
		ID:       book.ID,
		Title:    book.Title,
		Price:    book.Price,
		Quantity: 1,
		Cover:    book.Cover,
	}
	if book.Author != nil {
		line.Author = *book.Author
	}
	return line
}

// Subtotal returns price × quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered list of lines, in first-add order
type Cart []CartLine

// Total returns the sum of all line subtotals
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount returns the number of units in the cart
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Line returns the line for a book id
func (c Cart) Line(id int64) (CartLine, bool) {
	if i := c.index(id); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

func (c Cart) index(id int64) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
