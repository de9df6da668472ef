package reservation

import "time"

// Policy bundles the admission limits. The lifecycle logic only speaks to
// this interface, so the global constants below can become per-facility
// configuration without touching the service.
type Policy interface {
	MaxActiveReservations() int
	MinDuration() time.Duration
	MaxDuration() time.Duration
	// ModifyDeadline is how long before start a reservation becomes
	// immutable to the user (update and cancel alike).
	ModifyDeadline() time.Duration
}

const (
	defaultMaxActive      = 3
	defaultMinDuration    = 60 * time.Minute
	defaultMaxDuration    = 180 * time.Minute
	defaultModifyDeadline = time.Hour
)

type defaultPolicy struct{}

func DefaultPolicy() Policy { return defaultPolicy{} }

func (defaultPolicy) MaxActiveReservations() int  { return defaultMaxActive }
func (defaultPolicy) MinDuration() time.Duration  { return defaultMinDuration }
func (defaultPolicy) MaxDuration() time.Duration  { return defaultMaxDuration }
func (defaultPolicy) ModifyDeadline() time.Duration { return defaultModifyDeadline }
