package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
)

// zeroDecimalCurrencies валюты без дробных единиц
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true,
	"mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true,
	"xof": true, "xpf": true,
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client создает платежи (PaymentIntent) в Stripe для платных бронирований
type Client struct {
	api             *client.API
	defaultCurrency string
	log             Logger
}

// Option настройка клиента
type Option func(*options)

type options struct {
	backendURL string
}

// WithBackendURL направляет запросы на другой адрес API (stripe-mock, тесты)
func WithBackendURL(url string) Option {
	return func(o *options) {
		o.backendURL = url
	}
}

// NewClient создает клиента Stripe
func NewClient(secretKey, defaultCurrency string, log Logger, opts ...Option) *Client {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var backends *stripe.Backends
	if o.backendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(o.backendURL),
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	return &Client{
		api:             client.New(secretKey, backends),
		defaultCurrency: strings.ToLower(defaultCurrency),
		log:             log,
	}
}

// CreatePaymentIntent создает платеж на сумму бронирования
// Ключ идемпотентности привязан к ID бронирования, повторный вызов вернет тот же платеж
func (c *Client) CreatePaymentIntent(ctx context.Context, res *domain.Reservation) (*domain.PaymentIntent, error) {
	currency := strings.ToLower(res.Currency)
	if currency == "" {
		currency = c.defaultCurrency
	}

	amount, err := minorUnits(res.Price, currency)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(fmt.Sprintf("Booking #%d", res.ID)),
	}
	if res.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(res.Customer.Email)
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey(res.ID))
	params.AddMetadata("reservation_id", strconv.FormatInt(res.ID, 10))
	params.AddMetadata("creator_id", strconv.FormatInt(res.CreatorID, 10))
	params.AddMetadata("service_id", strconv.FormatInt(res.ServiceID, 10))

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, classify(err)
	}

	c.log.Info("Payments: created payment intent %s for reservation id=%d amount=%d %s",
		intent.ID, res.ID, intent.Amount, intent.Currency)

	return &domain.PaymentIntent{
		Ref:          intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

func idempotencyKey(reservationID int64) string {
	return fmt.Sprintf("booking_%d", reservationID)
}

func minorUnits(price float64, currency string) (int64, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, price)
	}
	if zeroDecimalCurrencies[currency] {
		return int64(math.Round(price)), nil
	}
	return int64(math.Round(price * 100)), nil
}

func classify(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode == http.StatusTooManyRequests || stripeErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
		return fmt.Errorf("%w: %s (%s)", ErrPaymentRejected, stripeErr.Msg, stripeErr.Type)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
