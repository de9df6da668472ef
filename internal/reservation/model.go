package reservation

import (
	"time"

	"seatflow/internal/schedule"
)

// Status is the closed set of reservation states. ACTIVE is the only
// non-terminal state; there is no resurrection from CANCELLED or COMPLETED.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID         int                `db:"id" json:"id"`
	UserID     int                `db:"user_id" json:"user_id"`
	SeatID     int                `db:"seat_id" json:"seat_id"`
	DeskID     int                `db:"desk_id" json:"desk_id"`
	BlockID    int                `db:"block_id" json:"block_id"`
	FacilityID int                `db:"facility_id" json:"facility_id"`
	Date       time.Time          `db:"reservation_date" json:"reservation_date"`
	StartTime  schedule.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime    schedule.TimeOfDay `db:"end_time" json:"end_time"`
	Status     Status             `db:"status" json:"status"`

	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// StartsAt anchors the reservation's start on its date.
func (r *Reservation) StartsAt() time.Time {
	return r.StartTime.At(r.Date)
}

// EndsAt anchors the reservation's end on its date.
func (r *Reservation) EndsAt() time.Time {
	return r.EndTime.At(r.Date)
}

// Modifiable reports whether the reservation may still be updated or
// cancelled at the given instant: it must be ACTIVE and now must be strictly
// before start minus the deadline. Exactly at the boundary counts as passed.
func (r *Reservation) Modifiable(now time.Time, deadline time.Duration) bool {
	if r.Status != StatusActive {
		return false
	}
	return now.Before(r.StartsAt().Add(-deadline))
}

// ReservationWithDetails carries the joined display names for listings.
type ReservationWithDetails struct {
	Reservation
	FacilityName string `db:"facility_name" json:"facility_name"`
	BlockName    string `db:"block_name" json:"block_name"`
	DeskName     string `db:"desk_name" json:"desk_name"`
	SeatNumber   int    `db:"seat_number" json:"seat_number"`
}

// TimeRange is a start/end pair on a single date.
type TimeRange struct {
	Start schedule.TimeOfDay `db:"start_time" json:"start_time"`
	End   schedule.TimeOfDay `db:"end_time" json:"end_time"`
}

type CreateReservationRequest struct {
	SeatID    int    `json:"seat_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateReservationRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

type CompleteExpiredResponse struct {
	Completed int64 `json:"completed"`
}
