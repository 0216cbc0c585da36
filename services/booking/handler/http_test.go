package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/booking"
	"github.com/uniride/uniride/services/booking/mocks"
	"github.com/uniride/uniride/services/booking/usecase"
)

func performApply(t *testing.T, repo booking.BookingRepo, bookingID, action, actor string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewBookingHandler(usecase.NewBookingUC(repo, nil, eventbus.New()), actor)
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/bookings/%s/%s", bookingID, action), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestApplyEndpoint_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockBookingRepo(ctrl)
	bkg := &models.Booking{
		BookingID:      uuid.New(),
		RideID:         uuid.New(),
		PassengerID:    "passenger-1",
		DriverID:       "driver-1",
		SeatsRequested: 1,
		Status:         models.BookingStatusPending,
	}
	repo.EXPECT().GetBooking(gomock.Any(), bkg.BookingID).Return(bkg, nil)
	repo.EXPECT().GetRideAvailability(gomock.Any(), bkg.RideID).Return(2, nil)
	repo.EXPECT().CompareAndSetStatus(gomock.Any(), bkg.BookingID, models.BookingStatusPending, models.BookingStatusAccepted).Return(true, nil)

	rec := performApply(t, repo, bkg.BookingID.String(), "accept", "driver-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accepted", body["status"])
}

func TestApplyEndpoint_UnauthorizedActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockBookingRepo(ctrl)
	bkg := &models.Booking{
		BookingID:   uuid.New(),
		RideID:      uuid.New(),
		PassengerID: "passenger-1",
		DriverID:    "driver-1",
		Status:      models.BookingStatusPending,
	}
	repo.EXPECT().GetBooking(gomock.Any(), bkg.BookingID).Return(bkg, nil)

	rec := performApply(t, repo, bkg.BookingID.String(), "accept", "passenger-1")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApplyEndpoint_UnknownAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockBookingRepo(ctrl)
	bkg := &models.Booking{
		BookingID: uuid.New(),
		DriverID:  "driver-1",
		Status:    models.BookingStatusPending,
	}
	repo.EXPECT().GetBooking(gomock.Any(), bkg.BookingID).Return(bkg, nil)

	rec := performApply(t, repo, bkg.BookingID.String(), "approve", "driver-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyEndpoint_BadBookingID(t *testing.T) {
	rec := performApply(t, nil, "not-a-uuid", "accept", "driver-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
