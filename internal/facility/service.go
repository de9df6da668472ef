package facility

import (
	"context"
	"time"

	"seatflow/internal/apperr"
	"seatflow/internal/schedule"
)

type Service interface {
	CreateFacility(ctx context.Context, req CreateFacilityRequest) (*Facility, error)
	GetAllFacilities(ctx context.Context) ([]Facility, error)
	GetFacility(ctx context.Context, id int) (*FacilityWithCalendar, error)
	UpsertSchedule(ctx context.Context, facilityID int, req UpsertScheduleRequest) (*schedule.DailySchedule, error)
	CreateBlock(ctx context.Context, facilityID int, req CreateBlockRequest) (*Block, error)
	GetBlocks(ctx context.Context, facilityID int) ([]Block, error)
	CreateDesk(ctx context.Context, blockID int, req CreateDeskRequest) (*Desk, error)
	GetDesks(ctx context.Context, blockID int) ([]Desk, error)
	GetSeats(ctx context.Context, deskID int) ([]Seat, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateFacility(ctx context.Context, req CreateFacilityRequest) (*Facility, error) {
	return s.repo.CreateFacility(ctx, req.Name, req.Address)
}

func (s *service) GetAllFacilities(ctx context.Context) ([]Facility, error) {
	return s.repo.GetAllFacilities(ctx)
}

func (s *service) GetFacility(ctx context.Context, id int) (*FacilityWithCalendar, error) {
	f, err := s.repo.GetFacilityByID(ctx, id)
	if err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	cal, err := s.repo.GetCalendar(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FacilityWithCalendar{Facility: *f, Calendar: cal}, nil
}

func (s *service) UpsertSchedule(ctx context.Context, facilityID int, req UpsertScheduleRequest) (*schedule.DailySchedule, error) {
	if _, err := s.repo.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	d := schedule.DailySchedule{Day: time.Weekday(req.DayOfWeek), Closed: req.IsClosed}
	if !req.IsClosed {
		open, err := schedule.ParseTimeOfDay(req.OpenTime)
		if err != nil {
			return nil, apperr.ErrValidation.WithMessage("invalid open_time: %v", err)
		}
		close, err := schedule.ParseTimeOfDay(req.CloseTime)
		if err != nil {
			return nil, apperr.ErrValidation.WithMessage("invalid close_time: %v", err)
		}
		d.Open, d.Close = open, close
	}

	if !d.Valid() {
		return nil, apperr.ErrValidation.WithMessage("open_time must be before close_time")
	}

	if err := s.repo.UpsertDailySchedule(ctx, facilityID, d); err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *service) CreateBlock(ctx context.Context, facilityID int, req CreateBlockRequest) (*Block, error) {
	if _, err := s.repo.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	return s.repo.CreateBlock(ctx, facilityID, req.Name)
}

func (s *service) GetBlocks(ctx context.Context, facilityID int) ([]Block, error) {
	if _, err := s.repo.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	return s.repo.GetBlocksByFacility(ctx, facilityID)
}

func (s *service) CreateDesk(ctx context.Context, blockID int, req CreateDeskRequest) (*Desk, error) {
	return s.repo.CreateDeskWithSeats(ctx, blockID, req.Name, req.SeatCount)
}

func (s *service) GetDesks(ctx context.Context, blockID int) ([]Desk, error) {
	return s.repo.GetDesksByBlock(ctx, blockID)
}

func (s *service) GetSeats(ctx context.Context, deskID int) ([]Seat, error) {
	return s.repo.GetSeatsByDesk(ctx, deskID)
}
