package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

func TestCreatePaymentIntent(t *testing.T) {
	var (
		gotPath, gotIdempotency string
		gotForm                 map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotIdempotency = r.Header.Get("Idempotency-Key")
		gotForm = map[string]string{
			"amount":                  r.PostForm.Get("amount"),
			"currency":                r.PostForm.Get("currency"),
			"metadata[reservation_id]": r.PostForm.Get("metadata[reservation_id]"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":50000,"currency":"usd","client_secret":"pi_123_secret_abc"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_123", "usd", logger.NewNop(), WithBackendURL(srv.URL))

	intent, err := c.CreatePaymentIntent(context.Background(), &domain.Reservation{
		ID:       42,
		Price:    500,
		Currency: "USD",
		Customer: domain.CustomerInfo{Email: "a@b.c"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/payment_intents", gotPath)
	assert.Equal(t, "booking_42", gotIdempotency)
	assert.Equal(t, "50000", gotForm["amount"])
	assert.Equal(t, "usd", gotForm["currency"])
	assert.Equal(t, "42", gotForm["metadata[reservation_id]"])

	assert.Equal(t, "pi_123", intent.Ref)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, int64(50000), intent.Amount)
}

func TestCreatePaymentIntent_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "card declined",
			status:  http.StatusPaymentRequired,
			body:    `{"error":{"type":"card_error","message":"declined"}}`,
			wantErr: ErrPaymentRejected,
		},
		{
			name:    "provider down",
			status:  http.StatusServiceUnavailable,
			body:    `{"error":{"type":"api_error","message":"down"}}`,
			wantErr: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("sk_test_123", "usd", logger.NewNop(), WithBackendURL(srv.URL))
			_, err := c.CreatePaymentIntent(context.Background(), &domain.Reservation{ID: 1, Price: 10})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMinorUnits(t *testing.T) {
	amount, err := minorUnits(19.99, "usd")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), amount)

	amount, err = minorUnits(1500, "jpy")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), amount)

	_, err = minorUnits(0, "usd")
	require.ErrorIs(t, err, ErrInvalidAmount)
}
