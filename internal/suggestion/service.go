package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seatflow/internal/apperr"
	"seatflow/internal/facility"
	"seatflow/internal/logger"
	"seatflow/internal/metrics"
	"seatflow/internal/reservation"
	"seatflow/internal/schedule"
)

const (
	bucketMinutes = 30
	windowBuckets = 4 // 2 hours
	cacheTTL      = time.Minute
	noneSentinel  = "none"
)

// Suggestion is the least-congested contiguous 2-hour slot of a day.
type Suggestion struct {
	FacilityID int                `json:"facility_id"`
	Date       string             `json:"date"`
	Start      schedule.TimeOfDay `json:"start_time"`
	End        schedule.TimeOfDay `json:"end_time"`
}

type Service interface {
	// BestSlot returns nil when no usable window exists (closed day, too
	// late today, or the open window is shorter than two hours).
	BestSlot(ctx context.Context, facilityID int, date time.Time) (*Suggestion, error)
}

type service struct {
	catalog      facility.Repository
	reservations reservation.Repository
	cache        *redis.Client

	now func() time.Time
}

// NewService builds the engine. cache may be nil, in which case every
// request recomputes.
func NewService(catalog facility.Repository, reservations reservation.Repository, cache *redis.Client) Service {
	return &service{
		catalog:      catalog,
		reservations: reservations,
		cache:        cache,
		now:          time.Now,
	}
}

func (s *service) BestSlot(ctx context.Context, facilityID int, date time.Time) (*Suggestion, error) {
	if _, err := s.catalog.GetFacilityByID(ctx, facilityID); err != nil {
		return nil, apperr.ErrNotFound.WithMessage("facility not found")
	}

	key := cacheKey(facilityID, date)
	if cached, ok := s.fromCache(ctx, key); ok {
		metrics.RecordSuggestion("hit")
		return cached, nil
	}

	best, err := s.compute(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, best)
	if best == nil {
		metrics.RecordSuggestion("none")
	} else {
		metrics.RecordSuggestion("miss")
	}

	return best, nil
}

func (s *service) compute(ctx context.Context, facilityID int, date time.Time) (*Suggestion, error) {
	cal, err := s.catalog.GetCalendar(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	open, close, ok := cal.OpenWindow(date)
	if !ok {
		return nil, nil
	}

	now := s.now()
	if sameDay(now, date) {
		clock := schedule.ClockOf(now)
		// Inside the final pre-close hour there is nothing worth suggesting.
		if clock.After(close.AddMinutes(-60)) {
			return nil, nil
		}
		if clock.After(open) {
			open = clock.CeilHalfHour()
		}
	}

	buckets := close.Sub(open) / bucketMinutes
	if buckets < windowBuckets {
		return nil, nil
	}

	ranges, err := s.reservations.FacilityReservationTimes(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}

	histogram := make([]int, buckets)
	for _, r := range ranges {
		first := r.Start.Sub(open) / bucketMinutes
		last := (r.End.Sub(open) + bucketMinutes - 1) / bucketMinutes
		if first < 0 {
			first = 0
		}
		if last > buckets {
			last = buckets
		}
		for i := first; i < last; i++ {
			histogram[i]++
		}
	}

	// Fixed-size sliding window; first minimum wins.
	bestIdx, bestScore := -1, 0
	for i := 0; i+windowBuckets <= buckets; i++ {
		score := 0
		for j := 0; j < windowBuckets; j++ {
			score += histogram[i+j]
		}
		if bestIdx == -1 || score < bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return nil, nil
	}

	start := open.AddMinutes(bestIdx * bucketMinutes)
	return &Suggestion{
		FacilityID: facilityID,
		Date:       date.Format("2006-01-02"),
		Start:      start,
		End:        start.AddMinutes(windowBuckets * bucketMinutes),
	}, nil
}

func (s *service) fromCache(ctx context.Context, key string) (*Suggestion, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	if data == noneSentinel {
		return nil, true
	}

	var sug Suggestion
	if err := json.Unmarshal([]byte(data), &sug); err != nil {
		return nil, false
	}
	return &sug, true
}

func (s *service) toCache(ctx context.Context, key string, sug *Suggestion) {
	if s.cache == nil {
		return
	}

	payload := noneSentinel
	if sug != nil {
		data, err := json.Marshal(sug)
		if err != nil {
			return
		}
		payload = string(data)
	}

	if err := s.cache.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		logger.Debugf("suggestion cache write failed: %v", err)
	}
}

func cacheKey(facilityID int, date time.Time) string {
	return fmt.Sprintf("suggestion:%d:%s", facilityID, date.Format("2006-01-02"))
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
