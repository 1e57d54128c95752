package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restomap/booking-backend/internal/model"
	"github.com/restomap/booking-backend/internal/repository"
	"github.com/restomap/booking-backend/internal/service"
)

type stubBookingStore struct {
	err error
}

func (s *stubBookingStore) ApplyOutcome(_ context.Context, id string, status model.BookingStatus) (model.Booking, bool, error) {
	if s.err != nil {
		return model.Booking{}, false, s.err
	}
	return model.Booking{ID: id, MemberID: "m1", Status: status}, true, nil
}

type stubMemberStore struct{}

func (stubMemberStore) GetByID(context.Context, string) (model.Member, error) {
	return model.Member{ID: "m1", TelegramID: 1}, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, int64, string) error { return nil }

func callOutcome(t *testing.T, storeErr error, bookingID, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewCallbackHandler(&service.Fulfillment{
		Bookings: &stubBookingStore{err: storeErr},
		Members:  stubMemberStore{},
		Notifier: noopNotifier{},
		Outcomes: service.OutcomeMap{SuccessCode: "BOOKED", FailureCode: "DECLINED"},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/internal/bookings/"+bookingID+"/outcome", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/internal/bookings/:id/outcome")
	c.SetParamNames("id")
	c.SetParamValues(bookingID)

	require.NoError(t, h.ReportOutcome(c))
	return rec
}

func TestReportOutcomeEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		body       string
		wantStatus int
	}{
		{
			name:       "success outcome applies",
			body:       `{"outcome":"BOOKED"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown code rejected",
			body:       `{"outcome":"WAT"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty outcome rejected",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown booking",
			storeErr:   repository.ErrBookingNotFound,
			body:       `{"outcome":"BOOKED"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already decided the other way",
			storeErr:   repository.ErrInvalidTransition,
			body:       `{"outcome":"DECLINED"}`,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := callOutcome(t, tt.storeErr, "b1", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestReportOutcomeEndpointResponseBody(t *testing.T) {
	rec := callOutcome(t, nil, "b1", `{"outcome":"BOOKED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "b1", resp["booking_id"])
	assert.Equal(t, "CONFIRMED", resp["status"])
}
