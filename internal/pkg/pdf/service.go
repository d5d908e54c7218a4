// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/pkg/money"
)

// Service renders order receipts as PDF documents
type Service struct {
	dpi   uint
	store StoreInfo
	tmpl  *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) (*Service, error) {
	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"money": func(amount decimal.Decimal, code string) string {
			return money.FromCode(amount, code).Format()
		},
	}).Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}

	dpi := cfg.PDF.Dpi
	if dpi == 0 {
		dpi = 300
	}

	return &Service{
		dpi: dpi,
		store: StoreInfo{
			Name:    cfg.App.StoreName,
			Email:   cfg.App.StoreEmail,
			Website: cfg.App.StoreURL,
		},
		tmpl: tmpl,
	}, nil
}

// RenderReceipt generates the PDF receipt of a confirmed order
func (s *Service) RenderReceipt(order *checkout.Order) ([]byte, error) {
	htmlContent, err := s.generateHTML(ReceiptData{
		ReceiptNumber: fmt.Sprintf("REC-%s", order.Number),
		Order:         order,
		Store:         s.store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}

func (s *Service) generateHTML(data ReceiptData) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string          `json:"receipt_number"`
	Order         *checkout.Order `json:"order"`
	Store         StoreInfo       `json:"store"`
}

// StoreInfo represents the shop printed on the receipt header
type StoreInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

var _ checkout.ReceiptRenderer = (*Service)(nil)

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 10px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
        }
        .num {
            text-align: right !important;
            width: 90px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            text-align: right;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Store.Name}}</h1>
        <p>{{.Store.Website}} · {{.Store.Email}}</p>
        <div class="receipt-title">RECIBO</div>
        <p><strong>Recibo:</strong> {{.ReceiptNumber}}</p>
        <p><strong>Pedido:</strong> {{.Order.Number}}</p>
        <p><strong>Fecha:</strong> {{.Order.PlacedAt.Format "02/01/2006 15:04"}}</p>
    </div>

    <div class="section-title">Enviar a:</div>
    <p>
        <strong>{{.Order.Shipping.FullName}}</strong><br>
        {{.Order.Shipping.Address}}<br>
        {{.Order.Shipping.ZipCode}} {{.Order.Shipping.City}}<br>
        {{.Order.Shipping.Country}}<br>
        {{if .Order.Shipping.Phone}}Tel: {{.Order.Shipping.Phone}}<br>{{end}}
        {{.Order.Shipping.Email}}
    </p>

    <table class="items-table">
        <thead>
            <tr>
                <th>Libro</th>
                <th class="num">Cantidad</th>
                <th class="num">Precio</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{$currency := .Order.Currency}}
            {{range .Order.Lines}}
            <tr>
                <td>
                    <strong>{{.Title}}</strong>
                    {{if .Author.Name}}<br><small>{{.Author.Name}}</small>{{end}}
                </td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .Price $currency}}</td>
                <td class="num">{{money .Subtotal $currency}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <p class="total-row">Total ({{.Order.ItemCount}} artículos): {{money .Order.Total .Order.Currency}}</p>

    <div class="footer">
        <p>¡Gracias por tu compra!</p>
    </div>
</body>
</html>
`
