package eventform

import (
	"FoodShare/domain"
)

// Minutes are the selectable minute values of the time pickers.
var Minutes = []int{0, 15, 30, 45}

// Midnight is the picker's default start.
var Midnight = TimeParts{Hour: 12, Minute: 0, AmPm: domain.AM}

// TimeParts is a 12-hour picker value.
type TimeParts struct {
	Hour   int    `json:"hour" validate:"min=1,max=12"`
	Minute int    `json:"minute" validate:"oneof=0 15 30 45"`
	AmPm   string `json:"ampm" validate:"ampm"`
}

// To24 formats t as a 24-hour "HH:MM" string.
func (t TimeParts) To24() (string, error) {
	if !validMinute(t.Minute) {
		return "", domain.ErrInvalidTime
	}
	h, err := domain.To24Hour(t.Hour, t.AmPm)
	if err != nil {
		return "", err
	}
	return domain.FormatClock(h, t.Minute), nil
}

// FromClock splits a 24-hour "HH:MM" string into picker parts.
func FromClock(hhmm string) (TimeParts, error) {
	h, m, err := domain.ParseClock(hhmm)
	if err != nil {
		return TimeParts{}, err
	}
	hour, ampm, err := domain.To12Hour(h)
	if err != nil {
		return TimeParts{}, err
	}
	return TimeParts{Hour: hour, Minute: m, AmPm: ampm}, nil
}

func validMinute(m int) bool {
	for _, v := range Minutes {
		if v == m {
			return true
		}
	}
	return false
}
