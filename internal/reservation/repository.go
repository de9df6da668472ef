package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"seatflow/internal/apperr"
	"seatflow/internal/schedule"
)

// Advisory lock namespace for seat admission. The second key is the seat id.
const seatLockClass = 4217

const reservationColumns = `id, user_id, seat_id, desk_id, block_id, facility_id, reservation_date, start_time, end_time, status, cancellation_reason, cancelled_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, seatLockClass, res.SeatID); err != nil {
		return nil, err
	}

	// Recheck under the lock: the service's pre-check ran outside it.
	conflict, err := seatHasConflictTx(ctx, tx, res.SeatID, res.Date, res.StartTime, res.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.ErrSeatConflict
	}

	query := `
		INSERT INTO reservations (user_id, seat_id, desk_id, block_id, facility_id, reservation_date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'ACTIVE')
		RETURNING ` + reservationColumns

	var created Reservation
	err = tx.GetContext(ctx, &created, query,
		res.UserID, res.SeatID, res.DeskID, res.BlockID, res.FacilityID,
		res.Date, res.StartTime, res.EndTime,
	)
	if err != nil {
		if isSeatExclusionViolation(err) {
			return nil, apperr.ErrSeatConflict
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isSeatExclusionViolation(err) {
			return nil, apperr.ErrSeatConflict
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var res Reservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) UpdateTime(ctx context.Context, id, seatID int, date time.Time, start, end schedule.TimeOfDay) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, seatLockClass, seatID); err != nil {
		return err
	}

	conflict, err := seatHasConflictTx(ctx, tx, seatID, date, start, end, id)
	if err != nil {
		return err
	}
	if conflict {
		return apperr.ErrSeatConflict
	}

	query := `
		UPDATE reservations
		SET reservation_date = $2, start_time = $3, end_time = $4
		WHERE id = $1 AND status = 'ACTIVE'
	`

	result, err := tx.ExecContext(ctx, query, id, date, start, end)
	if err != nil {
		if isSeatExclusionViolation(err) {
			return apperr.ErrSeatConflict
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrInvalidState
	}

	if err := tx.Commit(); err != nil {
		if isSeatExclusionViolation(err) {
			return apperr.ErrSeatConflict
		}
		return err
	}

	return nil
}

func (r *repository) Cancel(ctx context.Context, id int, reason string) error {
	query := `
		UPDATE reservations
		SET status = 'CANCELLED', cancellation_reason = $2, cancelled_at = NOW()
		WHERE id = $1 AND status = 'ACTIVE'
	`

	result, err := r.db.ExecContext(ctx, query, id, reason)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrInvalidState
	}

	return nil
}

func (r *repository) MarkExpiredCompleted(ctx context.Context, date time.Time, now schedule.TimeOfDay) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'COMPLETED'
		WHERE status = 'ACTIVE'
		AND (reservation_date < $1 OR (reservation_date = $1 AND end_time <= $2))
	`

	result, err := r.db.ExecContext(ctx, query, date, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Half-open interval overlap: existing.start < end AND existing.end > start.
const seatConflictQuery = `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE seat_id = $1 AND reservation_date = $2 AND status = 'ACTIVE'
			AND start_time < $4 AND end_time > $3
			AND id != $5
		)
	`

func seatHasConflictTx(ctx context.Context, tx *sqlx.Tx, seatID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error) {
	var conflict bool
	err := tx.GetContext(ctx, &conflict, seatConflictQuery, seatID, date, start, end, excludeID)
	return conflict, err
}

func (r *repository) SeatHasConflict(ctx context.Context, seatID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error) {
	var conflict bool
	err := r.db.GetContext(ctx, &conflict, seatConflictQuery, seatID, date, start, end, excludeID)
	return conflict, err
}

func (r *repository) UserHasConflict(ctx context.Context, userID int, date time.Time, start, end schedule.TimeOfDay, excludeID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND reservation_date = $2 AND status = 'ACTIVE'
			AND start_time < $4 AND end_time > $3
			AND id != $5
		)
	`

	var conflict bool
	err := r.db.GetContext(ctx, &conflict, query, userID, date, start, end, excludeID)
	return conflict, err
}

func (r *repository) CountActiveFuture(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE user_id = $1 AND status = 'ACTIVE'
		AND (reservation_date > $2 OR (reservation_date = $2 AND end_time > $3))
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, userID, date, now)
	return count, err
}

func (r *repository) CountOccupiedSeats(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	query := `
		SELECT COUNT(DISTINCT seat_id)
		FROM reservations
		WHERE seat_id = ANY($1) AND reservation_date = $2 AND status = 'ACTIVE'
		AND start_time < $4 AND end_time > $3
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, pq.Array(seatIDs), date, start, end)
	return count, err
}

func (r *repository) OccupiedSeatIDs(ctx context.Context, seatIDs []int, date time.Time, start, end schedule.TimeOfDay) ([]int, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT seat_id
		FROM reservations
		WHERE seat_id = ANY($1) AND reservation_date = $2 AND status = 'ACTIVE'
		AND start_time < $4 AND end_time > $3
		ORDER BY seat_id ASC
	`

	var ids []int
	err := r.db.SelectContext(ctx, &ids, query, pq.Array(seatIDs), date, start, end)
	return ids, err
}

const detailColumns = `
			r.id,
			r.user_id,
			r.seat_id,
			r.desk_id,
			r.block_id,
			r.facility_id,
			r.reservation_date,
			r.start_time,
			r.end_time,
			r.status,
			r.cancellation_reason,
			r.cancelled_at,
			r.created_at,
			f.name AS facility_name,
			b.name AS block_name,
			d.name AS desk_name,
			s.seat_number AS seat_number`

const detailJoins = `
		FROM reservations r
		JOIN facilities f ON r.facility_id = f.id
		JOIN blocks b ON r.block_id = b.id
		JOIN desks d ON r.desk_id = d.id
		JOIN seats s ON r.seat_id = s.id`

func (r *repository) GetUserActive(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]ReservationWithDetails, error) {
	query := `
		SELECT ` + detailColumns + detailJoins + `
		WHERE r.user_id = $1 AND r.status = 'ACTIVE'
		AND (r.reservation_date > $2 OR (r.reservation_date = $2 AND r.end_time > $3))
		ORDER BY r.reservation_date ASC, r.start_time ASC
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, userID, date, now)
	return list, err
}

func (r *repository) GetUserPast(ctx context.Context, userID int, date time.Time, now schedule.TimeOfDay) ([]ReservationWithDetails, error) {
	query := `
		SELECT ` + detailColumns + detailJoins + `
		WHERE r.user_id = $1
		AND (r.status != 'ACTIVE' OR r.reservation_date < $2 OR (r.reservation_date = $2 AND r.end_time <= $3))
		ORDER BY r.reservation_date DESC, r.start_time DESC
	`

	var list []ReservationWithDetails
	err := r.db.SelectContext(ctx, &list, query, userID, date, now)
	return list, err
}

func (r *repository) FacilityReservationTimes(ctx context.Context, facilityID int, date time.Time) ([]TimeRange, error) {
	query := `
		SELECT start_time, end_time
		FROM reservations
		WHERE facility_id = $1 AND reservation_date = $2 AND status = 'ACTIVE'
	`

	var ranges []TimeRange
	err := r.db.SelectContext(ctx, &ranges, query, facilityID, date)
	return ranges, err
}

// isSeatExclusionViolation detects the storage-level backstop firing: the
// btree_gist EXCLUDE constraint (23P01) or a unique violation (23505) on
// the reservations table.
func isSeatExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23P01" || pqErr.Code == "23505"
}
