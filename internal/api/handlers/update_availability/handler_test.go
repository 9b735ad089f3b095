package update_availability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-SlotBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpdateScheduleRequest
	err error
}

func (f *fakeService) Update(_ context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{CreatorID: req.CreatorID, IsBookingEnabled: true}, nil
}

func do(svc *fakeService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/creators/7/availability", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"creatorId": "7"})
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_PassesIdentityFromPathAndAuth(t *testing.T) {
	svc := &fakeService{}

	rec := do(svc, `{"isBookingEnabled": true, "timezone": "Europe/Berlin",
		"weeklySchedule": [{"dayOfWeek": 1, "active": true, "ranges": [{"start": "09:00", "end": "12:00"}]}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(7), svc.got.CreatorID)
	assert.Equal(t, int64(7), svc.got.UserID)
	require.Len(t, svc.got.WeeklySchedule, 1)
	assert.Equal(t, "09:00", svc.got.WeeklySchedule[0].Ranges[0].Start.String())
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, do(&fakeService{err: availability.ErrAccessDenied}, `{}`).Code)

	rec := do(&fakeService{err: fmt.Errorf("%w: ranges overlap", availability.ErrInvalidInput)}, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ranges overlap")

	assert.Equal(t, http.StatusBadRequest, do(&fakeService{}, `{"timezone": 5}`).Code)
}
