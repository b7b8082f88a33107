package mapview

import (
	"bytes"
	"testing"

	"FoodShare/domain"
	"FoodShare/pkg/campus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dukeViewport(t *testing.T) (Viewport, domain.Campus) {
	t.Helper()
	c, err := campus.Resolve("duke")
	require.NoError(t, err)
	v, err := Fit(c.Bounds, 800, 600)
	require.NoError(t, err)
	return v, c
}

func TestFitKeepsBoundsInView(t *testing.T) {
	v, c := dukeViewport(t)
	x1, y1 := v.ToPixel(domain.LatLng{Lat: c.Bounds.North, Lng: c.Bounds.West})
	x2, y2 := v.ToPixel(domain.LatLng{Lat: c.Bounds.South, Lng: c.Bounds.East})
	assert.True(t, v.Contains(x1, y1))
	assert.True(t, v.Contains(x2, y2))
	assert.Less(t, x1, x2)
	assert.Less(t, y1, y2)

	_, err := Fit(c.Bounds, 0, 600)
	assert.ErrorIs(t, err, domain.ErrInvalidViewport)
}

func TestPixelRoundTrip(t *testing.T) {
	v, c := dukeViewport(t)
	x, y := v.ToPixel(c.Center)
	back := v.ToLatLng(x, y)
	assert.InDelta(t, c.Center.Lat, back.Lat, 1e-9)
	assert.InDelta(t, c.Center.Lng, back.Lng, 1e-9)

	cx, cy := v.ToPixel(v.Center)
	assert.InDelta(t, 400, cx, 1e-6)
	assert.InDelta(t, 300, cy, 1e-6)
}

func TestStyles(t *testing.T) {
	assert.Equal(t, Style{Color: "#6949FF", Width: 36, Height: 42}, StyleFor(StateDefault))
	assert.Equal(t, 48, StyleFor(StateSelected).Width)
	assert.True(t, StyleFor(StateEditing).Draggable)
	assert.Equal(t, "#14b8a6", StyleFor(StateEditing).Color)
	assert.Equal(t, Style{Color: "#14b8a6", Width: 56, Height: 70}, StyleFor(StatePending))
}

func TestMarkersStates(t *testing.T) {
	events := domain.EventSet{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	pending := domain.LatLng{Lat: 36.005, Lng: -78.94}
	markers := Markers(events, "b", "c", &pending)
	require.Len(t, markers, 4)
	assert.Equal(t, StateDefault, markers[0].State)
	assert.Equal(t, StateSelected, markers[1].State)
	assert.Equal(t, StateEditing, markers[2].State)
	assert.Equal(t, PendingMarkerID, markers[3].ID)
}

func TestHandleClick(t *testing.T) {
	v, c := dukeViewport(t)
	markers := Markers(domain.EventSet{{ID: "pin-1", Location: c.Center}}, "", "", nil)

	x, y := v.ToPixel(c.Center)
	got := v.HandleClick(markers, x, y-10)
	assert.Equal(t, ClickMarker, got.Kind)
	assert.Equal(t, "pin-1", got.PinID)
	assert.Nil(t, got.Location)

	got = v.HandleClick(markers, 20, 30)
	assert.Equal(t, ClickBackground, got.Kind)
	assert.Empty(t, got.PinID)
	require.NotNil(t, got.Location)
	assert.Equal(t, 20.0, got.OffsetX)
	assert.Equal(t, 30.0, got.OffsetY)
	want := v.ToLatLng(20, 30)
	assert.InDelta(t, want.Lat, got.Location.Lat, 1e-12)
}

func TestHandleClickPrefersTopMarker(t *testing.T) {
	v, c := dukeViewport(t)
	events := domain.EventSet{{ID: "under", Location: c.Center}, {ID: "over", Location: c.Center}}
	x, y := v.ToPixel(c.Center)
	got := v.HandleClick(Markers(events, "", "", nil), x, y-5)
	assert.Equal(t, "over", got.PinID)
}

func TestHandleDragEnd(t *testing.T) {
	v, c := dukeViewport(t)

	_, same, err := v.HandleDragEnd(Marker{ID: "a", Position: c.Center, State: StateSelected}, 100, 100)
	assert.ErrorIs(t, err, domain.ErrNotDraggable)
	assert.Equal(t, v, same)

	ll, moved, err := v.HandleDragEnd(Marker{ID: "a", Position: c.Center, State: StateEditing}, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, ll, moved.Center)
	assert.InDelta(t, v.ToLatLng(100, 100).Lng, ll.Lng, 1e-12)
}

func TestRenderPNG(t *testing.T) {
	v, c := dukeViewport(t)
	markers := Markers(domain.EventSet{{ID: "pin-1", Location: c.Center}}, "pin-1", "", nil)

	img := Render(v, c.Bounds, markers)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	data, err := RenderPNG(v, c.Bounds, markers)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}
