package reservation

import (
	"context"
	"time"

	"seatflow/internal/schedule"
)

type Repository interface {
	// Create inserts an ACTIVE reservation inside a transaction that holds a
	// per-seat advisory lock across the conflict recheck, so two concurrent
	// admits for the same seat cannot both pass. Returns ErrSeatConflict
	// when the interval is already taken.
	Create(ctx context.Context, r *Reservation) (*Reservation, error)

	GetByID(ctx context.Context, id int) (*Reservation, error)

	// UpdateTime rewrites date/start/end of an ACTIVE reservation under the
	// same per-seat lock discipline as Create.
	UpdateTime(ctx context.Context, id, seatID int, date time.Time, start, end schedule.TimeOfDay) error

	Cancel(ctx context.Context, id int, reason string) error

	// MarkExpiredCompleted flips every ACTIVE reservation ending at or
	// before the given instant to COMPLETED. Idempotent.
	MarkExpiredCompleted(ctx context.Context, date time.Time, now schedule.TimeOfDay) (int64, error)

	SeatHasConflict(ctx context.Context, seatID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error)
	UserHasConflict(ctx context.Context, userID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error)

	CountActiveFuture(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) (int, error)

	// CountOccupiedSeats counts the seats of the given set holding an ACTIVE
	// reservation overlapping the interval. One query regardless of set size.
	CountOccupiedSeats(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) (int, error)
	OccupiedSeatIDs(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) ([]int, error)

	GetUserActive(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]ReservationWithDetails, error)
	GetUserPast(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]ReservationWithDetails, error)

	// FacilityReservationTimes returns the start/end pairs of every ACTIVE
	// reservation in a facility on a date, for the occupancy histogram.
	FacilityReservationTimes(ctx context.Context, facilityID int, date time.Time) ([]TimeRange, error)
}
