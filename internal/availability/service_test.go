package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"seatflow/internal/apperr"
	"seatflow/internal/facility"
	"seatflow/internal/reservation"
	"seatflow/internal/schedule"
)

// Mock repositories
type MockCatalogRepo struct{ mock.Mock }
type MockReservationRepo struct{ mock.Mock }

func (m *MockCatalogRepo) CreateFacility(ctx context.Context, name, address string) (*facility.Facility, error) {
	args := m.Called(ctx, name, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facility.Facility), args.Error(1)
}

func (m *MockCatalogRepo) GetAllFacilities(ctx context.Context) ([]facility.Facility, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]facility.Facility), args.Error(1)
}

func (m *MockCatalogRepo) GetFacilityByID(ctx context.Context, id int) (*facility.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facility.Facility), args.Error(1)
}

func (m *MockCatalogRepo) GetCalendar(ctx context.Context, facilityID int) (*schedule.WeeklyCalendar, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.WeeklyCalendar), args.Error(1)
}

func (m *MockCatalogRepo) UpsertDailySchedule(ctx context.Context, facilityID int, d schedule.DailySchedule) error {
	return m.Called(ctx, facilityID, d).Error(0)
}

func (m *MockCatalogRepo) CreateBlock(ctx context.Context, facilityID int, name string) (*facility.Block, error) {
	args := m.Called(ctx, facilityID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facility.Block), args.Error(1)
}

func (m *MockCatalogRepo) GetBlocksByFacility(ctx context.Context, facilityID int) ([]facility.Block, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]facility.Block), args.Error(1)
}

func (m *MockCatalogRepo) CreateDeskWithSeats(ctx context.Context, blockID int, name string, seatCount int) (*facility.Desk, error) {
	args := m.Called(ctx, blockID, name, seatCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facility.Desk), args.Error(1)
}

func (m *MockCatalogRepo) GetDesksByBlock(ctx context.Context, blockID int) ([]facility.Desk, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]facility.Desk), args.Error(1)
}

func (m *MockCatalogRepo) GetSeatsByDesk(ctx context.Context, deskID int) ([]facility.Seat, error) {
	args := m.Called(ctx, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]facility.Seat), args.Error(1)
}

func (m *MockCatalogRepo) GetSeatRef(ctx context.Context, seatID int) (*facility.SeatRef, error) {
	args := m.Called(ctx, seatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facility.SeatRef), args.Error(1)
}

func (m *MockCatalogRepo) SeatIDsByDesk(ctx context.Context, deskID int) ([]int, error) {
	args := m.Called(ctx, deskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockCatalogRepo) SeatIDsByBlock(ctx context.Context, blockID int) ([]int, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockReservationRepo) Create(ctx context.Context, r *reservation.Reservation) (*reservation.Reservation, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepo) UpdateTime(ctx context.Context, id, seatID int, date time.Time, start, end schedule.TimeOfDay) error {
	return m.Called(ctx, id, seatID, date, start, end).Error(0)
}

func (m *MockReservationRepo) Cancel(ctx context.Context, id int, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockReservationRepo) MarkExpiredCompleted(ctx context.Context, date time.Time, now schedule.TimeOfDay) (int64, error) {
	args := m.Called(ctx, date, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepo) SeatHasConflict(ctx context.Context, seatID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error) {
	args := m.Called(ctx, seatID, date, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) UserHasConflict(ctx context.Context, userID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error) {
	args := m.Called(ctx, userID, date, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) CountActiveFuture(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) (int, error) {
	args := m.Called(ctx, userID, date, now)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) CountOccupiedSeats(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) (int, error) {
	args := m.Called(ctx, seatIDs, date, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) OccupiedSeatIDs(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) ([]int, error) {
	args := m.Called(ctx, seatIDs, date, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockReservationRepo) GetUserActive(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]reservation.ReservationWithDetails, error) {
	args := m.Called(ctx, userID, date, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservation.ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) GetUserPast(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]reservation.ReservationWithDetails, error) {
	args := m.Called(ctx, userID, date, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservation.ReservationWithDetails), args.Error(1)
}

func (m *MockReservationRepo) FacilityReservationTimes(ctx context.Context, facilityID int, date time.Time) ([]reservation.TimeRange, error) {
	args := m.Called(ctx, facilityID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservation.TimeRange), args.Error(1)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		occupied int
		want     Status
	}{
		{"all seats taken", 10, 10, StatusFull},
		{"no seats at all", 0, 0, StatusFull},
		{"plenty free", 10, 2, StatusGood},
		{"exactly at threshold", 10, 5, StatusLimited},
		{"just over threshold", 10, 4, StatusGood},
		{"one seat left", 4, 3, StatusLimited},
		{"limited scenario", 4, 2, StatusLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.total, tt.occupied))
		})
	}
}

func TestBlockAvailability(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	start, _ := schedule.ParseTimeOfDay("12:00")
	end, _ := schedule.ParseTimeOfDay("14:00")

	cr := new(MockCatalogRepo)
	rr := new(MockReservationRepo)
	cr.On("GetFacilityByID", mock.Anything, 1).Return(&facility.Facility{ID: 1, Name: "Central"}, nil)
	cr.On("GetBlocksByFacility", mock.Anything, 1).Return([]facility.Block{
		{ID: 10, FacilityID: 1, Name: "North Wing"},
		{ID: 11, FacilityID: 1, Name: "South Wing"},
	}, nil)
	cr.On("SeatIDsByBlock", mock.Anything, 10).Return([]int{1, 2, 3, 4, 5, 6, 7, 8}, nil)
	cr.On("SeatIDsByBlock", mock.Anything, 11).Return([]int{9, 10, 11, 12}, nil)
	rr.On("CountOccupiedSeats", mock.Anything, []int{1, 2, 3, 4, 5, 6, 7, 8}, date, start, end).Return(1, nil)
	rr.On("CountOccupiedSeats", mock.Anything, []int{9, 10, 11, 12}, date, start, end).Return(4, nil)

	svc := NewService(cr, rr)
	result, err := svc.BlockAvailability(context.Background(), 1, date, start, end)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, UnitAvailability{UnitID: 10, TotalSeats: 8, OccupiedSeats: 1, Status: StatusGood}, result[0])
	assert.Equal(t, UnitAvailability{UnitID: 11, TotalSeats: 4, OccupiedSeats: 4, Status: StatusFull}, result[1])
}

func TestBlockAvailability_FacilityNotFound(t *testing.T) {
	cr := new(MockCatalogRepo)
	cr.On("GetFacilityByID", mock.Anything, 404).Return(nil, errors.New("no rows"))

	svc := NewService(cr, new(MockReservationRepo))
	_, err := svc.BlockAvailability(context.Background(), 404, time.Now(), 0, 0)

	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestDeskAvailability(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	start, _ := schedule.ParseTimeOfDay("09:00")
	end, _ := schedule.ParseTimeOfDay("11:00")

	cr := new(MockCatalogRepo)
	rr := new(MockReservationRepo)
	cr.On("GetDesksByBlock", mock.Anything, 10).Return([]facility.Desk{
		{ID: 100, BlockID: 10, Name: "A1"},
		{ID: 101, BlockID: 10, Name: "A2"},
	}, nil)
	cr.On("SeatIDsByDesk", mock.Anything, 100).Return([]int{1, 2, 3, 4}, nil)
	cr.On("SeatIDsByDesk", mock.Anything, 101).Return([]int{5, 6, 7, 8}, nil)
	rr.On("CountOccupiedSeats", mock.Anything, []int{1, 2, 3, 4}, date, start, end).Return(2, nil)
	rr.On("CountOccupiedSeats", mock.Anything, []int{5, 6, 7, 8}, date, start, end).Return(0, nil)

	svc := NewService(cr, rr)
	result, err := svc.DeskAvailability(context.Background(), 10, date, start, end)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, StatusLimited, result[0].Status)
	assert.Equal(t, StatusLimited, result[1].Status) // 4 free, not above threshold

	// Desk occupancy sums to what a block-level query over the same seats
	// would report.
	totalOccupied := result[0].OccupiedSeats + result[1].OccupiedSeats
	assert.Equal(t, 2, totalOccupied)
}

func TestOccupiedSeats(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	start, _ := schedule.ParseTimeOfDay("12:00")
	end, _ := schedule.ParseTimeOfDay("14:00")

	cr := new(MockCatalogRepo)
	rr := new(MockReservationRepo)
	cr.On("SeatIDsByDesk", mock.Anything, 100).Return([]int{1, 2, 3, 4}, nil)
	rr.On("OccupiedSeatIDs", mock.Anything, []int{1, 2, 3, 4}, date, start, end).Return([]int{2, 4}, nil)

	svc := NewService(cr, rr)
	occupied, err := svc.OccupiedSeats(context.Background(), 100, date, start, end)

	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, occupied)
}
