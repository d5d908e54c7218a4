package checkout_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/domain/session"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"github.com/your-org/bookstore-backend/internal/pkg/feedback"
	"golang.org/x/crypto/bcrypt"
)

type recordingMailer struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, order *checkout.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order.Number)
	return m.err
}

func (m *recordingMailer) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.orders...)
}

type stubReceipts struct{}

func (stubReceipts) RenderReceipt(order *checkout.Order) ([]byte, error) {
	return []byte("%PDF-" + order.Number), nil
}

func strPtr(s string) *string { return &s }

func fullPatch() checkout.FormPatch {
	return checkout.FormPatch{
		FullName: strPtr(gofakeit.Name()),
		Email:    strPtr(gofakeit.Email()),
		Phone:    strPtr(gofakeit.Phone()),
		Address:  strPtr(gofakeit.Street()),
		City:     strPtr(gofakeit.City()),
		ZipCode:  strPtr(gofakeit.Zip()),
		Country:  strPtr("España"),
	}
}

type checkoutSuite struct {
	suite.Suite
	manager  *session.Manager
	feedback *feedback.Recorder
	mailer   *recordingMailer
	service  *checkout.Service
	sess     *session.Session
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(checkoutSuite))
}

// before each test
func (suite *checkoutSuite) SetupTest() {
	log, _ := test.NewNullLogger()
	suite.feedback = feedback.NewRecorder()
	suite.mailer = &recordingMailer{}

	creds, err := session.NewCredentials(config.AuthConfig{
		DemoUsername: "user",
		DemoPassword: "user",
		DemoName:     "Usuario",
		DemoSurname:  "Demo",
		DemoEmail:    "user@demo.com",
		DemoPhone:    "+34 600 123 456",
	}, auth.NewPasswordManager(bcrypt.MinCost))
	suite.Require().NoError(err)

	suite.manager = session.NewManager(kvstore.NewMemory(0), suite.feedback, creds, log)
	suite.service = checkout.NewService(config.CheckoutConfig{
		ConfirmDelay: 5 * time.Millisecond,
		Currency:     "EUR",
	}, suite.mailer, stubReceipts{}, suite.feedback, log)

	suite.sess = suite.manager.Get(suite.T().Context(), gofakeit.UUID())
	_, err = suite.sess.Login(suite.T().Context(), "user", "user")
	suite.Require().NoError(err)
}

func (suite *checkoutSuite) TearDownTest() {
	suite.service.Wait()
}

func (suite *checkoutSuite) addBooks() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.sess.Cart().AddItem(ctx, catalog.Book{ID: 1, Title: "A", Price: decimal.RequireFromString("10.00")}))
	suite.Require().NoError(suite.sess.Cart().AddItem(ctx, catalog.Book{ID: 1, Title: "A", Price: decimal.RequireFromString("10.00")}))
	suite.Require().NoError(suite.sess.Cart().AddItem(ctx, catalog.Book{ID: 2, Title: "B", Price: decimal.RequireFromString("5.50")}))
}

func (suite *checkoutSuite) TestLoadFormPrefilledFromUser() {
	form, err := suite.service.LoadForm(suite.T().Context(), suite.sess)
	suite.Require().NoError(err)

	suite.Equal(checkout.ShippingForm{
		FullName: "Usuario Demo",
		Email:    "user@demo.com",
		Phone:    "+34 600 123 456",
	}, form)
}

func (suite *checkoutSuite) TestSaveFormMergesAndPersists() {
	ctx := suite.T().Context()

	form, err := suite.service.SaveForm(ctx, suite.sess, checkout.FormPatch{City: strPtr("Madrid")})
	suite.Require().NoError(err)
	suite.Equal("Madrid", form.City)
	suite.Equal("Usuario Demo", form.FullName, "prefill kept")

	form, err = suite.service.SaveForm(ctx, suite.sess, checkout.FormPatch{Phone: strPtr("")})
	suite.Require().NoError(err)
	suite.Equal("Madrid", form.City)
	suite.Empty(form.Phone)

	reloaded, err := suite.service.LoadForm(ctx, suite.sess)
	suite.Require().NoError(err)
	suite.Equal(form, reloaded)
}

func (suite *checkoutSuite) TestContinue() {
	ctx := suite.T().Context()

	_, err := suite.service.Continue(ctx, suite.sess)
	var fieldErrs checkout.FieldErrors
	suite.Require().ErrorAs(err, &fieldErrs)
	suite.Len(fieldErrs, 4)
	suite.Contains(fieldErrs, "address")
	suite.Equal(feedback.CueError, suite.feedback.Last())

	_, err = suite.service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)

	_, err = suite.service.Continue(ctx, suite.sess)
	suite.Require().NoError(err)
	suite.Equal(feedback.CueSuccess, suite.feedback.Last())
}

func (suite *checkoutSuite) TestConfirm() {
	ctx := suite.T().Context()
	suite.addBooks()
	_, err := suite.service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)

	order, err := suite.service.Confirm(ctx, suite.sess)
	suite.Require().NoError(err)

	suite.Regexp(regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), order.Number)
	suite.True(decimal.RequireFromString("25.50").Equal(order.Total))
	suite.Equal(3, order.ItemCount())
	suite.Equal("EUR", order.Currency)

	suite.Empty(suite.sess.Cart().Cart(), "cart cleared")
	_, err = suite.sess.KV().Get(ctx, checkout.KeyForm)
	suite.Error(err, "form removed")

	last, err := suite.service.LastOrder(ctx, suite.sess)
	suite.Require().NoError(err)
	suite.Equal(order.Number, last.Number)
	suite.True(order.Total.Equal(last.Total))
	suite.Len(last.Lines, 2)

	suite.service.Wait()
	suite.Equal([]string{order.Number}, suite.mailer.sent())
	suite.Equal(feedback.CueSuccess, suite.feedback.Last())
}

func (suite *checkoutSuite) TestConfirmRejects() {
	ctx := suite.T().Context()

	suite.Run("invalid form", func() {
		suite.addBooks()
		_, err := suite.service.Confirm(ctx, suite.sess)
		var fieldErrs checkout.FieldErrors
		suite.ErrorAs(err, &fieldErrs)
		suite.NotEmpty(suite.sess.Cart().Cart(), "cart untouched")
	})

	suite.Run("empty cart", func() {
		suite.Require().NoError(suite.sess.Cart().Clear(ctx))
		_, err := suite.service.SaveForm(ctx, suite.sess, fullPatch())
		suite.Require().NoError(err)

		_, err = suite.service.Confirm(ctx, suite.sess)
		suite.ErrorIs(err, checkout.ErrEmptyCart)
	})

	suite.Run("cancelled during delay", func() {
		suite.addBooks()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := suite.service.Confirm(cancelled, suite.sess)
		suite.ErrorIs(err, context.Canceled)
		suite.NotEmpty(suite.sess.Cart().Cart(), "cart untouched")

		_, err = suite.service.LastOrder(ctx, suite.sess)
		suite.ErrorIs(err, checkout.ErrNoOrder)
	})
}

func (suite *checkoutSuite) slowService(delay time.Duration) *checkout.Service {
	log, _ := test.NewNullLogger()
	service := checkout.NewService(config.CheckoutConfig{
		ConfirmDelay: delay,
		Currency:     "EUR",
	}, nil, nil, suite.feedback, log)
	suite.T().Cleanup(service.Wait)
	return service
}

func (suite *checkoutSuite) TestConfirmKeepsItemsAddedDuringDelay() {
	ctx := suite.T().Context()
	service := suite.slowService(400 * time.Millisecond)
	suite.addBooks()
	_, err := service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)

	type result struct {
		order *checkout.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		order, err := service.Confirm(ctx, suite.sess)
		done <- result{order, err}
	}()

	time.Sleep(50 * time.Millisecond)
	suite.Require().NoError(suite.sess.Cart().AddItem(ctx, catalog.Book{ID: 3, Title: "C", Price: decimal.RequireFromString("4.00")}))

	res := <-done
	suite.Require().NoError(res.err)
	suite.Len(res.order.Lines, 3)
	suite.Equal(4, res.order.ItemCount())
	suite.True(decimal.RequireFromString("29.50").Equal(res.order.Total))
	suite.Empty(suite.sess.Cart().Cart())
}

func (suite *checkoutSuite) TestConcurrentConfirmPlacesOneOrder() {
	ctx := suite.T().Context()
	service := suite.slowService(200 * time.Millisecond)
	suite.addBooks()
	_, err := service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = service.Confirm(ctx, suite.sess)
		}()
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		suite.ErrorIs(err, checkout.ErrEmptyCart)
	}
	suite.Equal(1, placed)
}

func (suite *checkoutSuite) TestMailerFailureDoesNotFailConfirm() {
	ctx := suite.T().Context()
	suite.mailer.err = errors.New("smtp down")
	suite.addBooks()
	_, err := suite.service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)

	_, err = suite.service.Confirm(ctx, suite.sess)
	suite.NoError(err)
}

func (suite *checkoutSuite) TestReceipt() {
	ctx := suite.T().Context()

	_, _, err := suite.service.Receipt(ctx, suite.sess)
	suite.ErrorIs(err, checkout.ErrNoOrder)

	suite.addBooks()
	_, err = suite.service.SaveForm(ctx, suite.sess, fullPatch())
	suite.Require().NoError(err)
	order, err := suite.service.Confirm(ctx, suite.sess)
	suite.Require().NoError(err)

	pdf, got, err := suite.service.Receipt(ctx, suite.sess)
	suite.Require().NoError(err)
	suite.Equal(order.Number, got.Number)
	suite.Equal("%PDF-"+order.Number, string(pdf))
}

func (suite *checkoutSuite) TestReceiptDisabled() {
	log, _ := test.NewNullLogger()
	service := checkout.NewService(config.CheckoutConfig{Currency: "EUR"}, nil, nil, suite.feedback, log)

	_, _, err := service.Receipt(suite.T().Context(), suite.sess)
	suite.ErrorIs(err, checkout.ErrReceiptsDisabled)
}

func TestShippingFormValidate(t *testing.T) {
	assert.Nil(t, checkout.ShippingForm{
		FullName: "a", Email: "b", Phone: "c", Address: "d", City: "e", ZipCode: "f", Country: "g",
	}.Validate())

	errs := checkout.ShippingForm{FullName: "  "}.Validate()
	require.Len(t, errs, 7)
	assert.Equal(t, "Full name is required", errs["fullName"])
	assert.Equal(t, "invalid shipping form: address, city, country, email, fullName, phone, zipCode", errs.Error())
}
