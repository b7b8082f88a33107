package campus

import (
	"FoodShare/domain"
	"strings"
	"time"
)

var campuses = []domain.Campus{
	{
		ID:          "duke",
		Name:        "Duke University",
		Description: "Duke University is a private research university in Durham, North Carolina.",
		Bounds: domain.Bounds{
			North: 36.0135,
			South: 36.0000,
			East:  -78.9300,
			West:  -78.9500,
		},
		Center:   domain.LatLng{Lat: 36.00160553451508, Lng: -78.93957298090419},
		TimeZone: "America/New_York",
	},
	{
		ID:          "american-high",
		Name:        "American High School",
		Description: "American High School is a public high school in Fremont, California.",
		Bounds: domain.Bounds{
			North: 37.5500,
			South: 37.5400,
			East:  -121.9800,
			West:  -122.0000,
		},
		Center:   domain.LatLng{Lat: 37.5450, Lng: -121.9900},
		TimeZone: "America/Los_Angeles",
	},
}

// All returns the registry in display order.
func All() []domain.Campus {
	out := make([]domain.Campus, len(campuses))
	copy(out, campuses)
	return out
}

func Resolve(id string) (domain.Campus, error) {
	id = strings.TrimSpace(id)
	for _, c := range campuses {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Campus{}, domain.ErrUnknownCampus
}

// Location returns the campus time zone, falling back to fallback (or UTC)
// when the zone database does not know it.
func Location(c domain.Campus, fallback *time.Location) *time.Location {
	if loc, err := time.LoadLocation(c.TimeZone); err == nil && c.TimeZone != "" {
		return loc
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}
