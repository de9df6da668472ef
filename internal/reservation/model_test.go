package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"seatflow/internal/schedule"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("PENDING").Valid())
	assert.False(t, Status("").Valid())
}

func TestReservation_StartsAtEndsAt(t *testing.T) {
	start, _ := schedule.ParseTimeOfDay("14:00")
	end, _ := schedule.ParseTimeOfDay("16:00")
	res := &Reservation{
		Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
	}

	assert.Equal(t, time.Date(2025, 6, 3, 14, 0, 0, 0, time.UTC), res.StartsAt())
	assert.Equal(t, time.Date(2025, 6, 3, 16, 0, 0, 0, time.UTC), res.EndsAt())
}

func TestReservation_Modifiable(t *testing.T) {
	start, _ := schedule.ParseTimeOfDay("14:00")
	res := &Reservation{
		Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		Status:    StatusActive,
	}

	deadline := time.Hour

	// The boundary instant itself counts as passed.
	assert.True(t, res.Modifiable(time.Date(2025, 6, 3, 12, 59, 59, 0, time.UTC), deadline))
	assert.False(t, res.Modifiable(time.Date(2025, 6, 3, 13, 0, 0, 0, time.UTC), deadline))
	assert.False(t, res.Modifiable(time.Date(2025, 6, 3, 13, 0, 1, 0, time.UTC), deadline))

	res.Status = StatusCancelled
	assert.False(t, res.Modifiable(time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC), deadline))
}
