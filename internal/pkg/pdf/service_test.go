package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
)

func TestGenerateHTML(t *testing.T) {
	svc, err := NewService(&config.Config{
		App: config.AppConfig{StoreName: "Librería FPR", StoreEmail: "pedidos@example.com", StoreURL: "https://shop.example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(300), svc.dpi)

	order := &checkout.Order{
		Number: "ORD-20261016-0A1B2C3D",
		Lines: cart.Cart{
			{ID: 1, Title: "Niebla", Author: catalog.NameRef("Miguel de Unamuno"), Price: decimal.RequireFromString("9.95"), Quantity: 3},
			{ID: 2, Title: "Luces de bohemia", Price: decimal.RequireFromString("14"), Quantity: 1},
		},
		Total:    decimal.RequireFromString("43.85"),
		Currency: "EUR",
		Shipping: checkout.ShippingForm{
			FullName: "Luis Pérez",
			Email:    "luis@example.com",
			Address:  "Gran Vía 2",
			City:     "Bilbao",
			ZipCode:  "48001",
			Country:  "España",
		},
		PlacedAt: time.Date(2026, 10, 16, 9, 5, 0, 0, time.UTC),
	}

	html, err := svc.generateHTML(ReceiptData{ReceiptNumber: "REC-" + order.Number, Order: order, Store: svc.store})
	require.NoError(t, err)

	out := string(html)
	for _, want := range []string{
		"REC-ORD-20261016-0A1B2C3D",
		"16/10/2026 09:05",
		"Miguel de Unamuno",
		"9,95 €",
		"29,85 €",
		"14,00 €",
		"Total (4 artículos): 43,85 €",
		"48001 Bilbao",
		"Librería FPR",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Tel:")
}
