package campus

import "FoodShare/domain"

type View int

const (
	ViewLanding View = iota
	ViewCampusPicker
	ViewMap
)

const (
	PathLanding      = "/"
	PathCampusPicker = "/campuses"
	PathMap          = "/map"
)

func (v View) Path() string {
	switch v {
	case ViewCampusPicker:
		return PathCampusPicker
	case ViewMap:
		return PathMap
	}
	return PathLanding
}

func (v View) String() string {
	switch v {
	case ViewCampusPicker:
		return "campus_picker"
	case ViewMap:
		return "map"
	}
	return "landing"
}

// Route decides which view a request for the map workspace lands on.
// Unauthenticated callers go to the landing page; a missing or unknown
// campus id goes to the campus picker.
func Route(authenticated bool, campusParam string) (View, domain.Campus) {
	if !authenticated {
		return ViewLanding, domain.Campus{}
	}
	c, err := Resolve(campusParam)
	if err != nil {
		return ViewCampusPicker, domain.Campus{}
	}
	return ViewMap, c
}
