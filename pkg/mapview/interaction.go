package mapview

import (
	"FoodShare/domain"
)

const (
	ClickMarker     = "marker"
	ClickBackground = "background"
)

// HandleClick resolves a click at container offset (x, y). Markers drawn
// later sit on top, so they are tested first.
func (v Viewport) HandleClick(markers []Marker, x, y float64) domain.MapClickResponse {
	for i := len(markers) - 1; i >= 0; i-- {
		m := markers[i]
		if m.ID == PendingMarkerID {
			continue
		}
		if v.hit(m, x, y) {
			return domain.MapClickResponse{Kind: ClickMarker, PinID: m.ID, OffsetX: x, OffsetY: y}
		}
	}
	ll := v.ToLatLng(x, y)
	return domain.MapClickResponse{Kind: ClickBackground, Location: &ll, OffsetX: x, OffsetY: y}
}

// HandleDragEnd returns the coordinate under the release point and a
// viewport recentered there. Only the editing marker can be dragged.
func (v Viewport) HandleDragEnd(m Marker, x, y float64) (domain.LatLng, Viewport, error) {
	if !m.Style().Draggable {
		return domain.LatLng{}, v, domain.ErrNotDraggable
	}
	ll := v.ToLatLng(x, y)
	return ll, v.Recenter(ll), nil
}
