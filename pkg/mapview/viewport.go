package mapview

import (
	"math"

	"FoodShare/domain"
)

const (
	tileSize = 256.0
	maxZoom  = 19.0
	// fitPadding is the fraction of the viewport left around fitted bounds.
	fitPadding = 0.1
)

// Viewport is a Web Mercator view of Width x Height pixels centered on Center.
type Viewport struct {
	Center domain.LatLng `json:"center"`
	Zoom   float64       `json:"zoom"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
}

func worldSize(zoom float64) float64 {
	return tileSize * math.Pow(2, zoom)
}

// project maps a coordinate to world pixels at the given zoom.
func project(ll domain.LatLng, zoom float64) (x, y float64) {
	scale := worldSize(zoom)
	siny := math.Sin(ll.Lat * math.Pi / 180)
	siny = math.Min(math.Max(siny, -0.9999), 0.9999)
	x = (ll.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale
	return x, y
}

func unproject(x, y, zoom float64) domain.LatLng {
	scale := worldSize(zoom)
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return domain.LatLng{Lat: lat, Lng: lng}
}

// Fit returns the largest zoom at which b fits inside a width x height view.
func Fit(b domain.Bounds, width, height int) (Viewport, error) {
	if width <= 0 || height <= 0 || b.North <= b.South || b.East <= b.West {
		return Viewport{}, domain.ErrInvalidViewport
	}
	x1, y1 := project(domain.LatLng{Lat: b.North, Lng: b.West}, 0)
	x2, y2 := project(domain.LatLng{Lat: b.South, Lng: b.East}, 0)
	usableW := float64(width) * (1 - 2*fitPadding)
	usableH := float64(height) * (1 - 2*fitPadding)
	zoom := math.Min(math.Log2(usableW/(x2-x1)), math.Log2(usableH/(y2-y1)))
	zoom = math.Max(0, math.Min(maxZoom, zoom))

	cx, cy := (x1+x2)/2, (y1+y2)/2
	return Viewport{
		Center: unproject(cx, cy, 0),
		Zoom:   zoom,
		Width:  width,
		Height: height,
	}, nil
}

// ToPixel returns the container offset of ll.
func (v Viewport) ToPixel(ll domain.LatLng) (x, y float64) {
	cx, cy := project(v.Center, v.Zoom)
	px, py := project(ll, v.Zoom)
	return px - cx + float64(v.Width)/2, py - cy + float64(v.Height)/2
}

// ToLatLng is the inverse of ToPixel.
func (v Viewport) ToLatLng(x, y float64) domain.LatLng {
	cx, cy := project(v.Center, v.Zoom)
	return unproject(cx+x-float64(v.Width)/2, cy+y-float64(v.Height)/2, v.Zoom)
}

func (v Viewport) Recenter(ll domain.LatLng) Viewport {
	v.Center = ll
	return v
}

func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= float64(v.Width) && y <= float64(v.Height)
}
