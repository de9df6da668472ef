package facility

import (
	"time"

	"seatflow/internal/schedule"
)

type Facility struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type FacilityWithCalendar struct {
	Facility
	Calendar *schedule.WeeklyCalendar `json:"calendar"`
}

type Block struct {
	ID         int       `db:"id" json:"id"`
	FacilityID int       `db:"facility_id" json:"facility_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Desk struct {
	ID        int       `db:"id" json:"id"`
	BlockID   int       `db:"block_id" json:"block_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Seat struct {
	ID         int       `db:"id" json:"id"`
	DeskID     int       `db:"desk_id" json:"desk_id"`
	SeatNumber int       `db:"seat_number" json:"seat_number"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SeatRef resolves a seat to its full containment chain. The reservation
// table denormalises these ids for fast filtering.
type SeatRef struct {
	SeatID     int `db:"seat_id" json:"seat_id"`
	DeskID     int `db:"desk_id" json:"desk_id"`
	BlockID    int `db:"block_id" json:"block_id"`
	FacilityID int `db:"facility_id" json:"facility_id"`
}

type CreateFacilityRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

type UpsertScheduleRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"gte=0,lte=6"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

type CreateBlockRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateDeskRequest struct {
	Name      string `json:"name" binding:"required"`
	SeatCount int    `json:"seat_count" binding:"required,min=1"`
}
