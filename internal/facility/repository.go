package facility

import (
	"context"

	"github.com/jmoiron/sqlx"

	"seatflow/internal/schedule"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateFacility(ctx context.Context, name, address string) (*Facility, error) {
	query := `
		INSERT INTO facilities (name, address)
		VALUES ($1, $2)
		RETURNING id, name, address, created_at
	`

	var f Facility
	if err := r.db.GetContext(ctx, &f, query, name, address); err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *repository) GetAllFacilities(ctx context.Context) ([]Facility, error) {
	query := `
		SELECT id, name, address, created_at
		FROM facilities
		ORDER BY created_at DESC
	`

	var facilities []Facility
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, err
	}

	return facilities, nil
}

func (r *repository) GetFacilityByID(ctx context.Context, id int) (*Facility, error) {
	query := `
		SELECT id, name, address, created_at
		FROM facilities
		WHERE id = $1
	`

	var f Facility
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *repository) GetCalendar(ctx context.Context, facilityID int) (*schedule.WeeklyCalendar, error) {
	query := `
		SELECT day_of_week, open_time, close_time, is_closed
		FROM facility_schedules
		WHERE facility_id = $1
		ORDER BY day_of_week ASC
	`

	var days []schedule.DailySchedule
	if err := r.db.SelectContext(ctx, &days, query, facilityID); err != nil {
		return nil, err
	}

	return &schedule.WeeklyCalendar{Days: days}, nil
}

func (r *repository) UpsertDailySchedule(ctx context.Context, facilityID int, d schedule.DailySchedule) error {
	query := `
		INSERT INTO facility_schedules (facility_id, day_of_week, open_time, close_time, is_closed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (facility_id, day_of_week)
		DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, is_closed = EXCLUDED.is_closed
	`

	_, err := r.db.ExecContext(ctx, query, facilityID, int(d.Day), d.Open, d.Close, d.Closed)
	return err
}

func (r *repository) CreateBlock(ctx context.Context, facilityID int, name string) (*Block, error) {
	query := `
		INSERT INTO blocks (facility_id, name)
		VALUES ($1, $2)
		RETURNING id, facility_id, name, created_at
	`

	var b Block
	if err := r.db.GetContext(ctx, &b, query, facilityID, name); err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBlocksByFacility(ctx context.Context, facilityID int) ([]Block, error) {
	query := `
		SELECT id, facility_id, name, created_at
		FROM blocks
		WHERE facility_id = $1
		ORDER BY id ASC
	`

	var blocks []Block
	if err := r.db.SelectContext(ctx, &blocks, query, facilityID); err != nil {
		return nil, err
	}

	return blocks, nil
}

func (r *repository) CreateDeskWithSeats(ctx context.Context, blockID int, name string, seatCount int) (*Desk, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var d Desk
	deskQuery := `
		INSERT INTO desks (block_id, name)
		VALUES ($1, $2)
		RETURNING id, block_id, name, created_at
	`
	if err := tx.GetContext(ctx, &d, deskQuery, blockID, name); err != nil {
		return nil, err
	}

	seatQuery := `
		INSERT INTO seats (desk_id, seat_number)
		SELECT $1, generate_series(1, $2)
	`
	if _, err := tx.ExecContext(ctx, seatQuery, d.ID, seatCount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *repository) GetDesksByBlock(ctx context.Context, blockID int) ([]Desk, error) {
	query := `
		SELECT id, block_id, name, created_at
		FROM desks
		WHERE block_id = $1
		ORDER BY id ASC
	`

	var desks []Desk
	if err := r.db.SelectContext(ctx, &desks, query, blockID); err != nil {
		return nil, err
	}

	return desks, nil
}

func (r *repository) GetSeatsByDesk(ctx context.Context, deskID int) ([]Seat, error) {
	query := `
		SELECT id, desk_id, seat_number, created_at
		FROM seats
		WHERE desk_id = $1
		ORDER BY seat_number ASC
	`

	var seats []Seat
	if err := r.db.SelectContext(ctx, &seats, query, deskID); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *repository) GetSeatRef(ctx context.Context, seatID int) (*SeatRef, error) {
	query := `
		SELECT s.id AS seat_id, d.id AS desk_id, b.id AS block_id, b.facility_id
		FROM seats s
		JOIN desks d ON s.desk_id = d.id
		JOIN blocks b ON d.block_id = b.id
		WHERE s.id = $1
	`

	var ref SeatRef
	if err := r.db.GetContext(ctx, &ref, query, seatID); err != nil {
		return nil, err
	}

	return &ref, nil
}

func (r *repository) SeatIDsByDesk(ctx context.Context, deskID int) ([]int, error) {
	query := `
		SELECT id
		FROM seats
		WHERE desk_id = $1
		ORDER BY id ASC
	`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, deskID); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *repository) SeatIDsByBlock(ctx context.Context, blockID int) ([]int, error) {
	query := `
		SELECT s.id
		FROM seats s
		JOIN desks d ON s.desk_id = d.id
		WHERE d.block_id = $1
		ORDER BY s.id ASC
	`

	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, blockID); err != nil {
		return nil, err
	}

	return ids, nil
}
