// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/port"
)

// Shopper is the session checkout works on
type Shopper interface {
	KV() port.KeyValueStore
	Cart() *cart.Store
	User() (session.User, bool)
}

// Mailer sends the order confirmation email
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *Order) error
}

// ReceiptRenderer renders an order receipt document
type ReceiptRenderer interface {
	RenderReceipt(order *Order) ([]byte, error)
}

// Service handles the simulated checkout flow
type Service struct {
	config   config.CheckoutConfig
	mailer   Mailer
	receipts ReceiptRenderer
	feedback port.Feedback
	log      logrus.FieldLogger
	now      func() time.Time

	mailTimeout time.Duration
	wg          sync.WaitGroup
}

// NewService creates a new checkout service. mailer and receipts may be nil.
func NewService(cfg config.CheckoutConfig, mailer Mailer, receipts ReceiptRenderer, feedback port.Feedback, log logrus.FieldLogger) *Service {
	return &Service{
		config:      cfg,
		mailer:      mailer,
		receipts:    receipts,
		feedback:    feedback,
		log:         log,
		now:         time.Now,
		mailTimeout: 30 * time.Second,
	}
}

// LoadForm returns the saved form, or one prefilled from the signed-in user
func (s *Service) LoadForm(ctx context.Context, shopper Shopper) (ShippingForm, error) {
	raw, err := shopper.KV().Get(ctx, KeyForm)
	switch {
	case err == nil:
		var form ShippingForm
		decodeErr := json.Unmarshal([]byte(raw), &form)
		if decodeErr == nil {
			return form, nil
		}
		s.log.WithError(decodeErr).Warn("Discarding unreadable checkout form")
	case !errors.Is(err, port.ErrNotFound):
		return ShippingForm{}, fmt.Errorf("kv.Get: %w", err)
	}

	var form ShippingForm
	if user, ok := shopper.User(); ok {
		form.FullName = user.FullName()
		form.Email = user.Email
		form.Phone = user.Phone
	}
	return form, nil
}

// SaveForm merges patch into the current form and saves it
func (s *Service) SaveForm(ctx context.Context, shopper Shopper, patch FormPatch) (ShippingForm, error) {
	form, err := s.LoadForm(ctx, shopper)
	if err != nil {
		return ShippingForm{}, err
	}

	form = patch.Apply(form)
	if err := s.saveForm(ctx, shopper, form); err != nil {
		return ShippingForm{}, err
	}
	return form, nil
}

// Continue validates the shipping step before the confirmation screen
func (s *Service) Continue(ctx context.Context, shopper Shopper) (ShippingForm, error) {
	form, err := s.LoadForm(ctx, shopper)
	if err != nil {
		return ShippingForm{}, err
	}

	if errs := form.Validate(); errs != nil {
		s.feedback.Error(ctx)
		return form, errs
	}

	if err := s.saveForm(ctx, shopper, form); err != nil {
		return ShippingForm{}, err
	}

	s.feedback.Success(ctx)
	return form, nil
}

// Confirm places the simulated order: it waits the configured delay, records
// the order, empties the cart and forgets the form. The confirmation email is
// sent in the background.
func (s *Service) Confirm(ctx context.Context, shopper Shopper) (*Order, error) {
	form, err := s.LoadForm(ctx, shopper)
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	if shopper.Cart().Cart().IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Simulated processing time
	if s.config.ConfirmDelay > 0 {
		timer := time.NewTimer(s.config.ConfirmDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	// The order is built from the cart as it is at the moment it is
	// emptied, so nothing added during the delay is lost.
	var order *Order
	_, err = shopper.Cart().Drain(ctx, func(lines cart.Cart) error {
		if lines.IsEmpty() {
			return ErrEmptyCart
		}

		now := s.now().UTC()
		order = &Order{
			Number:   generateOrderNumber(now),
			Lines:    lines,
			Total:    lines.Total(),
			Currency: s.config.Currency,
			Shipping: form,
			PlacedAt: now,
		}

		data, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("failed to encode order: %w", err)
		}
		if err := shopper.KV().Set(ctx, KeyLastOrder, string(data)); err != nil {
			return fmt.Errorf("kv.Set: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := shopper.KV().Remove(ctx, KeyForm); err != nil {
		s.log.WithError(err).Warn("Failed to remove checkout form")
	}

	s.feedback.Success(ctx)
	s.log.WithFields(logrus.Fields{
		"order_number": order.Number,
		"items":        order.ItemCount(),
		"total":        order.Total.StringFixed(2),
	}).Info("Order confirmed")

	s.sendConfirmation(ctx, order)

	return order, nil
}

// LastOrder returns the most recently confirmed order
func (s *Service) LastOrder(ctx context.Context, shopper Shopper) (*Order, error) {
	raw, err := shopper.KV().Get(ctx, KeyLastOrder)
	if errors.Is(err, port.ErrNotFound) {
		return nil, ErrNoOrder
	}
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	var order Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}

// Receipt renders the receipt of the most recently confirmed order
func (s *Service) Receipt(ctx context.Context, shopper Shopper) ([]byte, *Order, error) {
	if s.receipts == nil {
		return nil, nil, ErrReceiptsDisabled
	}

	order, err := s.LastOrder(ctx, shopper)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := s.receipts.RenderReceipt(order)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return pdf, order, nil
}

// Wait blocks until background confirmation emails are done
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) sendConfirmation(ctx context.Context, order *Order) {
	if s.mailer == nil || order.Shipping.Email == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
		defer cancel()

		if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
			s.log.WithError(err).WithField("order_number", order.Number).Error("Failed to send order confirmation")
		}
	}()
}

func (s *Service) saveForm(ctx context.Context, shopper Shopper, form ShippingForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to encode checkout form: %w", err)
	}
	if err := shopper.KV().Set(ctx, KeyForm, string(data)); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}
	return nil
}

// generateOrderNumber returns ORD-YYYYMMDD-XXXXXXXX
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
