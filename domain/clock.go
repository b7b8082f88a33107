package domain

// To24Hour converts a 12-hour clock hour (1..12) plus AM/PM to 0..23.
func To24Hour(hour int, ampm string) (int, error) {
	if hour < 1 || hour > 12 || (ampm != AM && ampm != PM) {
		return 0, ErrInvalidTime
	}
	h := hour
	if ampm == PM && h != 12 {
		h += 12
	}
	if ampm == AM && h == 12 {
		h = 0
	}
	return h, nil
}

// To12Hour converts 0..23 to a 12-hour clock hour plus AM/PM.
func To12Hour(h24 int) (int, string, error) {
	switch {
	case h24 < 0 || h24 > 23:
		return 0, "", ErrInvalidTime
	case h24 == 0:
		return 12, AM, nil
	case h24 == 12:
		return 12, PM, nil
	case h24 > 12:
		return h24 - 12, PM, nil
	}
	return h24, AM, nil
}
