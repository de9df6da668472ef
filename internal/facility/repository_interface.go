package facility

import (
	"context"

	"seatflow/internal/schedule"
)

type Repository interface {
	CreateFacility(ctx context.Context, name, address string) (*Facility, error)
	GetAllFacilities(ctx context.Context) ([]Facility, error)
	GetFacilityByID(ctx context.Context, id int) (*Facility, error)

	GetCalendar(ctx context.Context, facilityID int) (*schedule.WeeklyCalendar, error)
	UpsertDailySchedule(ctx context.Context, facilityID int, d schedule.DailySchedule) error

	CreateBlock(ctx context.Context, facilityID int, name string) (*Block, error)
	GetBlocksByFacility(ctx context.Context, facilityID int) ([]Block, error)

	CreateDeskWithSeats(ctx context.Context, blockID int, name string, seatCount int) (*Desk, error)
	GetDesksByBlock(ctx context.Context, blockID int) ([]Desk, error)

	GetSeatsByDesk(ctx context.Context, deskID int) ([]Seat, error)
	GetSeatRef(ctx context.Context, seatID int) (*SeatRef, error)
	SeatIDsByDesk(ctx context.Context, deskID int) ([]int, error)
	SeatIDsByBlock(ctx context.Context, blockID int) ([]int, error)
}
