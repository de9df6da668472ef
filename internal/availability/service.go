package availability

import (
	"context"
	"time"

	"seatflow/internal/apperr"
	"seatflow/internal/facility"
	"seatflow/internal/metrics"
	"seatflow/internal/reservation"
	"seatflow/internal/schedule"
)

type Service interface {
	BlockAvailability(ctx context.Context, facilityID int, date time.Time, start, end schedule.TimeOfDay) ([]UnitAvailability, error)
	DeskAvailability(ctx context.Context, blockID int, date time.Time, start, end schedule.TimeOfDay) ([]UnitAvailability, error)
	OccupiedSeats(ctx context.Context, deskID int, date time.Time, start, end schedule.TimeOfDay) ([]int, error)
}

type service struct {
	catalog      facility.Repository
	reservations reservation.Repository
}

func NewService(catalog facility.Repository, reservations reservation.Repository) Service {
	return &service{catalog: catalog, reservations: reservations}
}

func (s *service) BlockAvailability(ctx context.Context, facilityID int, date time.Time, start, end schedule.TimeOfDay) ([]UnitAvailability, error) {
	if _, err := s.catalog.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	blocks, err := s.catalog.GetBlocksByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	result := make([]UnitAvailability, 0, len(blocks))
	for _, block := range blocks {
		seatIDs, err := s.catalog.SeatIDsByBlock(ctx, block.ID)
		if err != nil {
			return nil, err
		}

		occupied, err := s.reservations.CountOccupiedSeats(ctx, seatIDs, date, start, end)
		if err != nil {
			return nil, err
		}

		result = append(result, UnitAvailability{
			UnitID:        block.ID,
			TotalSeats:    len(seatIDs),
			OccupiedSeats: occupied,
			Status:        statusFor(len(seatIDs), occupied),
		})
	}

	metrics.RecordAvailabilityQuery("block")
	return result, nil
}

func (s *service) DeskAvailability(ctx context.Context, blockID int, date time.Time, start, end schedule.TimeOfDay) ([]UnitAvailability, error) {
	desks, err := s.catalog.GetDesksByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	result := make([]UnitAvailability, 0, len(desks))
	for _, desk := range desks {
		seatIDs, err := s.catalog.SeatIDsByDesk(ctx, desk.ID)
		if err != nil {
			return nil, err
		}

		occupied, err := s.reservations.CountOccupiedSeats(ctx, seatIDs, date, start, end)
		if err != nil {
			return nil, err
		}

		result = append(result, UnitAvailability{
			UnitID:        desk.ID,
			TotalSeats:    len(seatIDs),
			OccupiedSeats: occupied,
			Status:        statusFor(len(seatIDs), occupied),
		})
	}

	metrics.RecordAvailabilityQuery("desk")
	return result, nil
}

func (s *service) OccupiedSeats(ctx context.Context, deskID int, date time.Time, start, end schedule.TimeOfDay) ([]int, error) {
	seatIDs, err := s.catalog.SeatIDsByDesk(ctx, deskID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.reservations.OccupiedSeatIDs(ctx, seatIDs, date, start, end)
	if err != nil {
		return nil, err
	}

	metrics.RecordAvailabilityQuery("seat")
	return occupied, nil
}
