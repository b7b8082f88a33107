package projection

import (
	"FoodShare/domain"
	"time"
)

type Status int

const (
	Unclassifiable Status = iota
	Live
	Upcoming
	Past
)

func (s Status) String() string {
	switch s {
	case Live:
		return "live"
	case Upcoming:
		return "upcoming"
	case Past:
		return "past"
	}
	return "unclassifiable"
}

const windowLayout = domain.DateLayout + " " + domain.ClockLayout

// Window returns the start and end instants of p interpreted in loc.
// ok is false when the date or either time is missing or malformed.
func Window(p domain.Pin, loc *time.Location) (start, end time.Time, ok bool) {
	if p.Date == "" || p.StartTime == "" || p.EndTime == "" {
		return time.Time{}, time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(windowLayout, p.Date+" "+p.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.ParseInLocation(windowLayout, p.Date+" "+p.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Classify puts p in exactly one bucket at instant now.
func Classify(p domain.Pin, now time.Time, loc *time.Location) Status {
	start, end, ok := Window(p, loc)
	if !ok {
		return Unclassifiable
	}
	switch {
	case !now.Before(start) && !now.After(end):
		return Live
	case end.Before(now):
		return Past
	}
	return Upcoming
}
