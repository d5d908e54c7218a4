// internal/pkg/email/templates.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.SiteName}}</h1>
        <p>Hola {{.UserName}},</p>
        <p>Hemos recibido tu pedido <strong>{{.OrderNumber}}</strong> del {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr>
                <th align="left">Libro</th>
                <th align="right">Cantidad</th>
                <th align="right">Precio</th>
                <th align="right">Total</th>
            </tr>
            {{range .Items}}
            <tr>
                <td>{{.Title}}{{if .Author}}<br><small>{{.Author}}</small>{{end}}</td>
                <td align="right">{{.Quantity}}</td>
                <td align="right">{{.Price}}</td>
                <td align="right">{{.Total}}</td>
            </tr>
            {{end}}
        </table>
        <p style="font-size: 18px;"><strong>Total: {{.OrderTotal}}</strong> ({{.ItemCount}} artículos)</p>
        <h3>Envío</h3>
        <p>
            {{.ShippingAddress.FullName}}<br>
            {{.ShippingAddress.Address}}<br>
            {{.ShippingAddress.PostalCode}} {{.ShippingAddress.City}}<br>
            {{.ShippingAddress.Country}}<br>
            {{.ShippingAddress.Phone}}
        </p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            © {{.Year}} {{.SiteName}} · <a href="{{.SiteURL}}">{{.SiteURL}}</a>
        </p>
    </div>
</body>
</html>`

const testTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
    <h1>{{.SiteName}}</h1>
    <p>This is a test message sent at {{.SentAt}}.</p>
</body>
</html>`

// parseTemplates parses the built-in templates
func parseTemplates() (map[string]*template.Template, error) {
	sources := map[string]string{
		string(EmailTypeOrderConfirmation): orderConfirmationTemplate,
		string(EmailTypeTest):              testTemplate,
	}

	templates := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// renderTemplate renders an email template with data
func (s *Service) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}
