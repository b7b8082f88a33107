package mapview

import (
	"FoodShare/domain"
)

type MarkerState int

const (
	StateDefault MarkerState = iota
	StateSelected
	StateEditing
	StatePending
)

// PendingMarkerID identifies the not-yet-created event's marker.
const PendingMarkerID = "pending"

const (
	colorDefault = "#6949FF"
	colorEditing = "#14b8a6"
)

type Style struct {
	Color     string `json:"color"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Draggable bool   `json:"draggable"`
}

func StyleFor(state MarkerState) Style {
	switch state {
	case StateSelected:
		return Style{Color: colorDefault, Width: 48, Height: 56}
	case StateEditing:
		return Style{Color: colorEditing, Width: 48, Height: 56, Draggable: true}
	case StatePending:
		return Style{Color: colorEditing, Width: 56, Height: 70}
	}
	return Style{Color: colorDefault, Width: 36, Height: 42}
}

// Marker is a pin anchored at its bottom tip.
type Marker struct {
	ID       string        `json:"id"`
	Position domain.LatLng `json:"position"`
	State    MarkerState   `json:"state"`
}

func (m Marker) Style() Style { return StyleFor(m.State) }

// Markers builds one marker per event. editingID wins over selectedID; a
// non-nil pending location adds the creation marker last, on top.
func Markers(events domain.EventSet, selectedID, editingID string, pending *domain.LatLng) []Marker {
	out := make([]Marker, 0, len(events)+1)
	for _, p := range events {
		state := StateDefault
		switch p.ID {
		case editingID:
			state = StateEditing
		case selectedID:
			state = StateSelected
		}
		out = append(out, Marker{ID: p.ID, Position: p.Location, State: state})
	}
	if pending != nil {
		out = append(out, Marker{ID: PendingMarkerID, Position: *pending, State: StatePending})
	}
	return out
}

// hit reports whether the container point (x, y) lies on m.
func (v Viewport) hit(m Marker, x, y float64) bool {
	s := m.Style()
	px, py := v.ToPixel(m.Position)
	half := float64(s.Width) / 2
	return x >= px-half && x <= px+half && y >= py-float64(s.Height) && y <= py
}
