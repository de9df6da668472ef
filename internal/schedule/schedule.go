package schedule

import "time"

// DailySchedule is one day's operating hours. A Closed day carries no
// meaningful Open/Close.
type DailySchedule struct {
	Day    time.Weekday `db:"day_of_week" json:"day_of_week"`
	Open   TimeOfDay    `db:"open_time" json:"open_time"`
	Close  TimeOfDay    `db:"close_time" json:"close_time"`
	Closed bool         `db:"is_closed" json:"is_closed"`
}

// Valid reports whether the entry is usable: closed days are always valid,
// open days need open < close.
func (d DailySchedule) Valid() bool {
	return d.Closed || d.Open.Before(d.Close)
}

// WeeklyCalendar holds a facility's operating hours, at most one entry per
// day of week. Days without an entry are treated as closed.
type WeeklyCalendar struct {
	Days []DailySchedule `json:"days"`
}

// SetDay upserts the schedule for its day of week, replacing any existing
// entry for that day.
func (c *WeeklyCalendar) SetDay(d DailySchedule) {
	for i, existing := range c.Days {
		if existing.Day == d.Day {
			c.Days[i] = d
			return
		}
	}
	c.Days = append(c.Days, d)
}

// ScheduleFor returns the entry for the given day of week, if present.
func (c *WeeklyCalendar) ScheduleFor(day time.Weekday) (DailySchedule, bool) {
	for _, d := range c.Days {
		if d.Day == day {
			return d, true
		}
	}
	return DailySchedule{}, false
}

// OpenWindow returns the open/close window for the given date, or ok=false
// if the facility is closed that day.
func (c *WeeklyCalendar) OpenWindow(date time.Time) (open, close TimeOfDay, ok bool) {
	d, found := c.ScheduleFor(date.Weekday())
	if !found || d.Closed {
		return 0, 0, false
	}
	return d.Open, d.Close, true
}

// IsOpenAt reports whether the facility is open at time t on the given date.
// The close time is exclusive: nothing may start or run at or past close.
func (c *WeeklyCalendar) IsOpenAt(date time.Time, t TimeOfDay) bool {
	open, close, ok := c.OpenWindow(date)
	if !ok {
		return false
	}
	return t >= open && t < close
}

// Covers reports whether the whole interval [start, end) falls inside the
// date's open window.
func (c *WeeklyCalendar) Covers(date time.Time, start, end TimeOfDay) bool {
	open, close, ok := c.OpenWindow(date)
	if !ok {
		return false
	}
	return start >= open && end <= close
}
