package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logger.NewNop())
}

func TestGetOffering(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		validate func(t *testing.T, o domain.Offering)
	}{
		{
			name:   "session with own duration",
			status: http.StatusOK,
			body:   `{"id":5,"creator_id":1,"kind":"session","name":"1:1","duration_minutes":60,"price":500,"currency":"usd","active":true}`,
			validate: func(t *testing.T, o domain.Offering) {
				require.IsType(t, &domain.SessionOffering{}, o)
				d, ok := o.Duration()
				assert.True(t, ok)
				assert.Equal(t, time.Hour, d)
				assert.Equal(t, 500.0, o.Price())
				assert.Equal(t, int64(1), o.OwnerID())
			},
		},
		{
			name:   "session without duration",
			status: http.StatusOK,
			body:   `{"id":5,"creator_id":1,"kind":"session","price":0,"currency":"usd","active":true}`,
			validate: func(t *testing.T, o domain.Offering) {
				_, ok := o.Duration()
				assert.False(t, ok)
			},
		},
		{
			name:   "cohort slot",
			status: http.StatusOK,
			body:   `{"id":6,"creator_id":1,"kind":"cohort","duration_minutes":90,"price":100,"currency":"usd","active":true}`,
			validate: func(t *testing.T, o domain.Offering) {
				require.IsType(t, &domain.CohortSlotOffering{}, o)
				d, _ := o.Duration()
				assert.Equal(t, 90*time.Minute, d)
			},
		},
		{
			name:    "inactive",
			status:  http.StatusOK,
			body:    `{"id":5,"creator_id":1,"kind":"session","active":false}`,
			wantErr: ErrOfferingNotFound,
		},
		{
			name:    "unknown kind",
			status:  http.StatusOK,
			body:    `{"id":5,"creator_id":1,"kind":"webinar","active":true}`,
			wantErr: ErrInvalidResponse,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"code":404,"message":"not found"}`,
			wantErr: ErrOfferingNotFound,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `upstream`,
			wantErr: ErrUnavailable,
		},
		{
			name:    "bad json",
			status:  http.StatusOK,
			body:    `{`,
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/internal/services/5", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			offering, err := client.GetOffering(context.Background(), 5)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, offering)
		})
	}
}

func TestGetOffering_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())

	_, err := client.GetOffering(context.Background(), 5)
	require.ErrorIs(t, err, ErrUnavailable)
}
