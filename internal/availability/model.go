package availability

// Status is the tri-state drive for the booking flow: FULL units are not
// selectable, GOOD and LIMITED are.
type Status string

const (
	StatusFull    Status = "FULL"
	StatusGood    Status = "GOOD"
	StatusLimited Status = "LIMITED"
)

// goodThreshold is the free-seat count above which a unit reads GOOD.
const goodThreshold = 5

func statusFor(total, occupied int) Status {
	free := total - occupied
	if free == 0 {
		return StatusFull
	}
	if free > goodThreshold {
		return StatusGood
	}
	return StatusLimited
}

// UnitAvailability is the occupancy rollup for one block or desk.
type UnitAvailability struct {
	UnitID        int    `json:"unit_id"`
	TotalSeats    int    `json:"total_seats"`
	OccupiedSeats int    `json:"occupied_seats"`
	Status        Status `json:"status"`
}

type OccupiedSeatsResponse struct {
	DeskID  int   `json:"desk_id"`
	SeatIDs []int `json:"seat_ids"`
}
