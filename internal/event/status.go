package event

import (
	"fmt"
	"time"
)

const dateFormat = "2006-01-02"

var clockFormats = []string{"15:04:05", "15:04"}

func parseClock(s string) (time.Time, error) {
	for _, layout := range clockFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", s)
}

// combine builds the instant at the event's date and time of day in loc.
func combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// DeriveStatus computes an event's lifecycle status at the given instant.
// Canceled is terminal and is never recomputed. If the stored times cannot
// be parsed the stored status is kept.
func DeriveStatus(ev *Event, now time.Time, loc *time.Location) Status {
	if ev.Status == StatusCanceled {
		return StatusCanceled
	}

	start, err := combine(ev.Date, ev.StartTime, loc)
	if err != nil {
		return ev.Status
	}
	end, err := combine(ev.Date, ev.EndTime, loc)
	if err != nil {
		return ev.Status
	}

	switch {
	case now.Before(start):
		return StatusUpcoming
	case !now.After(end):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}
