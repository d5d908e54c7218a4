package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

func TestEncodeSnapshot(t *testing.T) {
	c := cart.Cart{
		{ID: 1, Title: "A", Author: catalog.ObjectRef(0, "X"), Price: decimal.RequireFromString("10.50"), Quantity: 2, Cover: "c.jpg"},
		{ID: 2, Title: "B", Author: catalog.NameRef("Y"), Price: decimal.RequireFromString("5"), Quantity: 1},
	}

	raw, err := cart.EncodeSnapshot(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"title":"A","author":{"name":"X"},"price":10.5,"quantity":2,"cover":"c.jpg"},
		{"id":2,"title":"B","author":"Y","price":5,"quantity":1}
	]`, raw)

	empty, err := cart.EncodeSnapshot(cart.Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	nilCart, err := cart.EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", nilCart)
}

func TestDecodeSnapshotKeepsAuthorShape(t *testing.T) {
	c, err := cart.DecodeSnapshot(`[{"id":1,"title":"A","author":{"id":3,"name":"X"},"price":1,"quantity":1},{"id":2,"title":"B","author":"Y","price":1,"quantity":1}]`)
	require.NoError(t, err)
	require.Len(t, c, 2)

	assert.Equal(t, catalog.ObjectRef(3, "X"), c[0].Author)
	assert.Equal(t, catalog.NameRef("Y"), c[1].Author)
}

func TestCartAggregates(t *testing.T) {
	c := cart.Cart{
		{ID: 1, Price: decimal.RequireFromString("19.99"), Quantity: 3},
		{ID: 2, Price: decimal.RequireFromString("0.01"), Quantity: 1},
	}

	assert.True(t, decimal.RequireFromString("60.98").Equal(c.Total()))
	assert.Equal(t, 4, c.ItemCount())
	assert.False(t, c.IsEmpty())
	assert.True(t, cart.Cart{}.IsEmpty())
	assert.True(t, cart.Cart{}.Total().IsZero())

	_, ok := c.Line(3)
	assert.False(t, ok)
}
