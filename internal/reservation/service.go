package reservation

import (
	"context"
	"fmt"
	"time"

	"seatflow/internal/apperr"
	"seatflow/internal/facility"
	"seatflow/internal/logger"
	"seatflow/internal/metrics"
	"seatflow/internal/schedule"
	"seatflow/internal/user"
)

// Notifier delivers reservation lifecycle emails. Implementations must not
// block admission: queue and return.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, email, name string, res *Reservation)
	ReservationCancelled(ctx context.Context, email, name string, res *Reservation)
}

type Service interface {
	Create(ctx context.Context, userID int, req CreateReservationRequest) (*Reservation, error)
	Update(ctx context.Context, reservationID, requesterID int, req UpdateReservationRequest) (*Reservation, error)
	Cancel(ctx context.Context, reservationID, requesterID int, reason string) error
	ListActive(ctx context.Context, userID int) ([]ReservationWithDetails, error)
	ListPast(ctx context.Context, userID int) ([]ReservationWithDetails, error)
	CompleteExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	catalog  facility.Repository
	userRepo user.Repository
	policy   Policy
	notifier Notifier

	now func() time.Time
}

func NewService(repo Repository, catalog facility.Repository, userRepo user.Repository, policy Policy, notifier Notifier) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		userRepo: userRepo,
		policy:   policy,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID int, req CreateReservationRequest) (*Reservation, error) {
	date, start, end, err := parseInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	ref, err := s.catalog.GetSeatRef(ctx, req.SeatID)
	if err != nil {
		return nil, apperr.ErrNotFound.WithMessage("seat not found")
	}

	if err := s.checkDuration(start, end); err != nil {
		return nil, err
	}

	if err := s.checkOpen(ctx, ref.FacilityID, date, start, end); err != nil {
		return nil, err
	}

	now := s.now()
	if start.At(date).Before(now) {
		return nil, apperr.ErrPastTime
	}

	active, err := s.repo.CountActiveFuture(ctx, userID, dateOnly(now), schedule.ClockOf(now))
	if err != nil {
		return nil, err
	}
	if active >= s.policy.MaxActiveReservations() {
		metrics.RecordAdmission("limit_exceeded")
		return nil, apperr.ErrLimitExceeded.WithMessage(
			"you already hold %d active reservations (limit %d)", active, s.policy.MaxActiveReservations())
	}

	userConflict, err := s.repo.UserHasConflict(ctx, userID, date, start, end, 0)
	if err != nil {
		return nil, err
	}
	if userConflict {
		metrics.RecordAdmission("user_conflict")
		return nil, apperr.ErrUserTimeConflict
	}

	seatConflict, err := s.repo.SeatHasConflict(ctx, req.SeatID, date, start, end, 0)
	if err != nil {
		return nil, err
	}
	if seatConflict {
		metrics.RecordAdmission("seat_conflict")
		return nil, apperr.ErrSeatConflict
	}

	created, err := s.repo.Create(ctx, &Reservation{
		UserID:     userID,
		SeatID:     ref.SeatID,
		DeskID:     ref.DeskID,
		BlockID:    ref.BlockID,
		FacilityID: ref.FacilityID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		// A concurrent admit may have won the seat between the pre-check
		// and the locked insert.
		if apperr.FromError(err).Code == apperr.ErrSeatConflict.Code {
			metrics.RecordAdmission("seat_conflict")
		}
		return nil, err
	}

	metrics.RecordAdmission("created")
	logger.Info("reservation created",
		"reservation_id", created.ID,
		"user_id", userID,
		"seat_id", created.SeatID,
		"date", req.Date,
		"start", req.StartTime,
		"end", req.EndTime,
	)

	s.notifyConfirmed(ctx, userID, created)

	return created, nil
}

func (s *service) Update(ctx context.Context, reservationID, requesterID int, req UpdateReservationRequest) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, apperr.ErrNotFound.WithMessage("reservation not found")
	}

	if res.UserID != requesterID {
		return nil, apperr.ErrForbidden
	}

	if res.Status != StatusActive {
		return nil, apperr.ErrInvalidState
	}

	date, start, end, err := parseInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if start.At(date).Before(now) {
		return nil, apperr.ErrPastTime
	}

	if err := s.checkDuration(start, end); err != nil {
		return nil, err
	}

	// The deadline gates modification as such, so it runs against the
	// reservation's current start, not the requested one.
	if !res.Modifiable(now, s.policy.ModifyDeadline()) {
		return nil, apperr.ErrDeadlinePassed
	}

	if err := s.checkOpen(ctx, res.FacilityID, date, start, end); err != nil {
		return nil, err
	}

	userConflict, err := s.repo.UserHasConflict(ctx, requesterID, date, start, end, reservationID)
	if err != nil {
		return nil, err
	}
	if userConflict {
		return nil, apperr.ErrUserTimeConflict
	}

	seatConflict, err := s.repo.SeatHasConflict(ctx, res.SeatID, date, start, end, reservationID)
	if err != nil {
		return nil, err
	}
	if seatConflict {
		return nil, apperr.ErrSeatConflict
	}

	if err := s.repo.UpdateTime(ctx, reservationID, res.SeatID, date, start, end); err != nil {
		return nil, err
	}

	logger.Info("reservation updated",
		"reservation_id", reservationID,
		"user_id", requesterID,
		"date", req.Date,
		"start", req.StartTime,
		"end", req.EndTime,
	)

	res.Date = date
	res.StartTime = start
	res.EndTime = end
	return res, nil
}

func (s *service) Cancel(ctx context.Context, reservationID, requesterID int, reason string) error {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return apperr.ErrNotFound.WithMessage("reservation not found")
	}

	if res.UserID != requesterID {
		return apperr.ErrForbidden
	}

	if res.Status != StatusActive {
		return apperr.ErrInvalidState
	}

	if !res.Modifiable(s.now(), s.policy.ModifyDeadline()) {
		return apperr.ErrDeadlinePassed
	}

	if reason == "" {
		reason = "user request"
	}

	if err := s.repo.Cancel(ctx, reservationID, reason); err != nil {
		return err
	}

	metrics.RecordCancellation()
	logger.Info("reservation cancelled", "reservation_id", reservationID, "user_id", requesterID, "reason", reason)

	res.Status = StatusCancelled
	s.notifyCancelled(ctx, requesterID, res)

	return nil
}

func (s *service) ListActive(ctx context.Context, userID int) ([]ReservationWithDetails, error) {
	now := s.now()
	return s.repo.GetUserActive(ctx, userID, dateOnly(now), schedule.ClockOf(now))
}

func (s *service) ListPast(ctx context.Context, userID int) ([]ReservationWithDetails, error) {
	now := s.now()
	return s.repo.GetUserPast(ctx, userID, dateOnly(now), schedule.ClockOf(now))
}

func (s *service) CompleteExpired(ctx context.Context) (int64, error) {
	now := s.now()
	completed, err := s.repo.MarkExpiredCompleted(ctx, dateOnly(now), schedule.ClockOf(now))
	if err != nil {
		return 0, err
	}

	if completed > 0 {
		metrics.RecordCompletions(completed)
		logger.Info("expired reservations completed", "count", completed)
	}

	return completed, nil
}

func (s *service) checkDuration(start, end schedule.TimeOfDay) error {
	minutes := end.Sub(start)
	min := int(s.policy.MinDuration().Minutes())
	max := int(s.policy.MaxDuration().Minutes())
	if minutes < min || minutes > max {
		return apperr.ErrInvalidDuration.WithMessage(
			"reservation must last between %d and %d minutes", min, max)
	}
	return nil
}

func (s *service) checkOpen(ctx context.Context, facilityID int, date time.Time, start, end schedule.TimeOfDay) error {
	cal, err := s.catalog.GetCalendar(ctx, facilityID)
	if err != nil {
		return err
	}
	if !cal.Covers(date, start, end) {
		return apperr.ErrFacilityClosed
	}
	return nil
}

func (s *service) notifyConfirmed(ctx context.Context, userID int, res *Reservation) {
	if s.notifier == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || u == nil {
		logger.Errorf("skipping confirmation email for user %d: %v", userID, err)
		return
	}
	s.notifier.ReservationConfirmed(ctx, u.Email, u.Name, res)
}

func (s *service) notifyCancelled(ctx context.Context, userID int, res *Reservation) {
	if s.notifier == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || u == nil {
		logger.Errorf("skipping cancellation email for user %d: %v", userID, err)
		return
	}
	s.notifier.ReservationCancelled(ctx, u.Email, u.Name, res)
}

func parseInterval(dateStr, startStr, endStr string) (time.Time, schedule.TimeOfDay, schedule.TimeOfDay, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return time.Time{}, 0, 0, apperr.ErrValidation.WithMessage("invalid date %q: expected YYYY-MM-DD", dateStr)
	}

	start, err := schedule.ParseTimeOfDay(startStr)
	if err != nil {
		return time.Time{}, 0, 0, apperr.ErrValidation.Wrap(fmt.Errorf("start_time: %w", err)).WithMessage("invalid start_time: expected HH:MM")
	}

	end, err := schedule.ParseTimeOfDay(endStr)
	if err != nil {
		return time.Time{}, 0, 0, apperr.ErrValidation.Wrap(fmt.Errorf("end_time: %w", err)).WithMessage("invalid end_time: expected HH:MM")
	}

	return date, start, end, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
