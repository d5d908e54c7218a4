// internal/domain/cart/snapshot.go
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// snapshotLine is the persisted shape of a line. Prices are JSON numbers.
type snapshotLine struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Author   catalog.Ref `json:"author"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Cover    string      `json:"cover,omitempty"`
}

// EncodeSnapshot serializes a cart into its persisted form
func EncodeSnapshot(c Cart) (string, error) {
	lines := make([]snapshotLine, 0, len(c))
	for _, line := range c {
		lines = append(lines, snapshotLine{
			ID:       line.ID,
			Title:    line.Title,
			Author:   line.Author,
			Price:    json.Number(line.Price.String()),
			Quantity: line.Quantity,
			Cover:    line.Cover,
		})
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a persisted cart. Lines with a non-positive quantity
// are dropped and repeated ids are merged into their first occurrence.
func DecodeSnapshot(raw string) (Cart, error) {
	var lines []snapshotLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	c := make(Cart, 0, len(lines))
	for i, wire := range lines {
		price, err := decimal.NewFromString(wire.Price.String())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid price %q", ErrMalformedSnapshot, i, wire.Price)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: line %d: negative price %s", ErrMalformedSnapshot, i, price)
		}
		if wire.Quantity <= 0 {
			continue
		}

		if j := c.index(wire.ID); j >= 0 {
			c[j].Quantity += wire.Quantity
			continue
		}

		c = append(c, CartLine{
			ID:       wire.ID,
			Title:    wire.Title,
			Author:   wire.Author,
			Price:    price,
			Quantity: wire.Quantity,
			Cover:    wire.Cover,
		})
	}

	return c, nil
}
