package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seatflow/internal/apperr"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Create(ctx context.Context, userID int, req CreateReservationRequest) (*Reservation, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationService) Update(ctx context.Context, reservationID, requesterID int, req UpdateReservationRequest) (*Reservation, error) {
	args := m.Called(ctx, reservationID, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationService) Cancel(ctx context.Context, reservationID, requesterID int, reason string) error {
	args := m.Called(ctx, reservationID, requesterID, reason)
	return args.Error(0)
}

func (m *MockReservationService) ListActive(ctx context.Context, userID int) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationService) ListPast(ctx context.Context, userID int) ([]ReservationWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ReservationWithDetails), args.Error(1)
}

func (m *MockReservationService) CompleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func setupHandlerRouter(svc Service, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
		})
	}

	h := NewHandler(svc)
	router.POST("/reservations", h.Create)
	router.GET("/reservations", h.List)
	router.PATCH("/reservations/:reservationID", h.Update)
	router.POST("/reservations/:reservationID/cancel", h.Cancel)
	router.POST("/maintenance/complete-expired", h.CompleteExpired)
	return router
}

func TestHandler_Create(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	req := CreateReservationRequest{SeatID: 7, Date: "2025-06-03", StartTime: "12:00", EndTime: "14:00"}
	svc.On("Create", mock.Anything, 3, req).Return(&Reservation{ID: 42, UserID: 3, SeatID: 7, Status: StatusActive}, nil)

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var got Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ID)
}

func TestHandler_Create_Conflict(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("Create", mock.Anything, 3, mock.AnythingOfType("reservation.CreateReservationRequest")).
		Return(nil, apperr.ErrSeatConflict)

	body, _ := json.Marshal(CreateReservationRequest{SeatID: 7, Date: "2025-06-03", StartTime: "12:00", EndTime: "14:00"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Create_MissingFields(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations", bytes.NewBufferString(`{"seat_id": 7}`))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Create_Unauthenticated(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 0)

	body, _ := json.Marshal(CreateReservationRequest{SeatID: 7, Date: "2025-06-03", StartTime: "12:00", EndTime: "14:00"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Update_DeadlinePassed(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("Update", mock.Anything, 42, 3, mock.AnythingOfType("reservation.UpdateReservationRequest")).
		Return(nil, apperr.ErrDeadlinePassed)

	body, _ := json.Marshal(UpdateReservationRequest{Date: "2025-06-03", StartTime: "15:00", EndTime: "17:00"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/reservations/42", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Update_BadID(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	body, _ := json.Marshal(UpdateReservationRequest{Date: "2025-06-03", StartTime: "15:00", EndTime: "17:00"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/reservations/abc", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Cancel(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("Cancel", mock.Anything, 42, 3, "plans changed").Return(nil)

	body, _ := json.Marshal(CancelReservationRequest{Reason: "plans changed"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations/42/cancel", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Cancel_EmptyBody(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("Cancel", mock.Anything, 42, 3, "").Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations/42/cancel", nil)
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Cancel_NotOwner(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("Cancel", mock.Anything, 42, 3, "").Return(apperr.ErrForbidden.WithMessage("reservation belongs to another user"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reservations/42/cancel", nil)
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		mockMethod string
	}{
		{name: "default scope is active", query: "", mockMethod: "ListActive"},
		{name: "explicit active", query: "?scope=active", mockMethod: "ListActive"},
		{name: "past", query: "?scope=past", mockMethod: "ListPast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReservationService)
			router := setupHandlerRouter(svc, 3)

			list := []ReservationWithDetails{
				{Reservation: Reservation{ID: 1, UserID: 3, Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)}, FacilityName: "Central Library"},
			}
			svc.On(tt.mockMethod, mock.Anything, 3).Return(list, nil)

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/reservations"+tt.query, nil)
			router.ServeHTTP(w, r)

			require.Equal(t, http.StatusOK, w.Code)

			var got []ReservationWithDetails
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			require.Len(t, got, 1)
			assert.Equal(t, "Central Library", got[0].FacilityName)
		})
	}
}

func TestHandler_List_BadScope(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/reservations?scope=upcoming", nil)
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CompleteExpired(t *testing.T) {
	svc := new(MockReservationService)
	router := setupHandlerRouter(svc, 3)

	svc.On("CompleteExpired", mock.Anything).Return(int64(4), nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/maintenance/complete-expired", nil)
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got CompleteExpiredResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(4), got.Completed)
}
