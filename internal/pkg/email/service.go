// internal/pkg/email/service.go
package email

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/pkg/money"
)

// Supported providers
const (
	ProviderLog        = "log"
	ProviderSMTP       = "smtp"
	ProviderResend     = "resend"
	ProviderSendGrid   = "sendgrid"
	ProviderMailerSend = "mailersend"
)

// endpoints of the HTTP providers
type endpoints struct {
	resend     string
	sendGrid   string
	mailerSend string
}

var defaultEndpoints = endpoints{
	resend:     "https://api.resend.com/emails",
	sendGrid:   "https://api.sendgrid.com/v3/mail/send",
	mailerSend: "https://api.mailersend.com/v1/email",
}

// Service handles all email operations
type Service struct {
	config    config.EmailConfig
	app       config.AppConfig
	templates map[string]*template.Template
	client    *http.Client
	endpoints endpoints
	log       logrus.FieldLogger
}

// NewService creates a new email service
func NewService(cfg *config.Config, log logrus.FieldLogger) (*Service, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Email.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		config:    cfg.Email,
		app:       cfg.App,
		templates: templates,
		client: &http.Client{
			Timeout: timeout,
		},
		endpoints: defaultEndpoints,
		log:       log,
	}, nil
}

// SendEmail sends an email using the configured provider
func (s *Service) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.Provider {
	case ProviderLog, "":
		return s.logEmail(email)
	case ProviderSMTP:
		return s.sendSMTPEmail(ctx, email)
	case ProviderResend:
		return s.sendResendEmail(ctx, email)
	case ProviderSendGrid:
		return s.sendSendGridEmail(ctx, email)
	case ProviderMailerSend:
		return s.sendMailerSendEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Provider)
	}
}

// SendOrderConfirmation sends the confirmation of a placed order to the
// address given in the shipping form
func (s *Service) SendOrderConfirmation(ctx context.Context, order *checkout.Order) error {
	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(
			s.app.StoreName,
			s.app.StoreURL,
			order.Shipping.FullName,
			order.Shipping.Email,
		),
		OrderNumber: order.Number,
		OrderDate:   order.PlacedAt.Format("02/01/2006 15:04"),
		OrderTotal:  money.FromCode(order.Total, order.Currency).Format(),
		ItemCount:   order.ItemCount(),
		ShippingAddress: Address{
			FullName:   order.Shipping.FullName,
			Address:    order.Shipping.Address,
			City:       order.Shipping.City,
			PostalCode: order.Shipping.ZipCode,
			Country:    order.Shipping.Country,
			Phone:      order.Shipping.Phone,
		},
	}

	for _, line := range order.Lines {
		data.Items = append(data.Items, OrderItem{
			Title:    line.Title,
			Author:   line.Author.Name,
			Quantity: line.Quantity,
			Price:    money.FromCode(line.Price, order.Currency).Format(),
			Total:    money.FromCode(line.Subtotal(), order.Currency).Format(),
			ImageURL: line.Cover,
		})
	}

	htmlContent, err := s.renderTemplate(string(EmailTypeOrderConfirmation), data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{order.Shipping.Email},
		Subject:     fmt.Sprintf("Confirmación de pedido - %s", order.Number),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": order.Number,
			"order_total":  data.OrderTotal,
		},
	}

	return s.SendEmail(ctx, email)
}

// SendTestEmail sends a short message to check the provider settings
func (s *Service) SendTestEmail(ctx context.Context, to string) error {
	htmlContent, err := s.renderTemplate(string(EmailTypeTest), map[string]string{
		"SiteName": s.app.StoreName,
		"SentAt":   time.Now().Format(time.RFC1123),
	})
	if err != nil {
		return fmt.Errorf("failed to render test template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("%s test email", s.app.StoreName),
		HTMLContent: htmlContent,
		Type:        EmailTypeTest,
	})
}

// logEmail writes the email to the log instead of delivering it
func (s *Service) logEmail(email *Email) error {
	s.log.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
		"type":    email.Type,
		"bytes":   len(email.HTMLContent),
	}).Info("📧 Email (log provider)")
	return nil
}

// fromAddress returns "Name <address>" or just the address
func (s *Service) fromAddress() string {
	if s.config.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}
	return s.config.FromEmail
}

var _ checkout.Mailer = (*Service)(nil)
