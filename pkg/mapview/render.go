package mapview

import (
	"bytes"
	"image"
	"math"

	"FoodShare/domain"

	"github.com/fogleman/gg"
)

const (
	backgroundColor = "#EEF2F7"
	campusFill      = "#DDE7F3"
	campusStroke    = "#9AAFC8"
	gridColor       = "#D3DCE8"
	gridStep        = 64
)

// Render draws the campus outline and markers into an image the size of v.
func Render(v Viewport, bounds domain.Bounds, markers []Marker) image.Image {
	dc := gg.NewContext(v.Width, v.Height)
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	dc.SetHexColor(gridColor)
	dc.SetLineWidth(1)
	for x := 0; x <= v.Width; x += gridStep {
		dc.DrawLine(float64(x), 0, float64(x), float64(v.Height))
	}
	for y := 0; y <= v.Height; y += gridStep {
		dc.DrawLine(0, float64(y), float64(v.Width), float64(y))
	}
	dc.Stroke()

	x1, y1 := v.ToPixel(domain.LatLng{Lat: bounds.North, Lng: bounds.West})
	x2, y2 := v.ToPixel(domain.LatLng{Lat: bounds.South, Lng: bounds.East})
	dc.DrawRoundedRectangle(x1, y1, x2-x1, y2-y1, 8)
	dc.SetHexColor(campusFill)
	dc.FillPreserve()
	dc.SetHexColor(campusStroke)
	dc.SetLineWidth(2)
	dc.Stroke()

	for _, m := range markers {
		x, y := v.ToPixel(m.Position)
		drawMarker(dc, x, y, m.Style())
	}
	return dc.Image()
}

// drawMarker draws a teardrop pin whose tip sits on (x, y).
func drawMarker(dc *gg.Context, x, y float64, s Style) {
	w, h := float64(s.Width), float64(s.Height)
	r := w / 2
	cy := y - h + r

	dc.NewSubPath()
	dc.DrawArc(x, cy, r, math.Pi*0.8, math.Pi*2.2)
	dc.LineTo(x, y)
	dc.ClosePath()
	dc.SetHexColor(s.Color)
	dc.FillPreserve()
	dc.SetRGBA255(255, 255, 255, 255)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.DrawCircle(x, cy, r*0.38)
	dc.SetRGBA255(255, 255, 255, 255)
	dc.Fill()
}

// RenderPNG renders and encodes the map.
func RenderPNG(v Viewport, bounds domain.Bounds, markers []Marker) ([]byte, error) {
	dc := gg.NewContextForImage(Render(v, bounds, markers))
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
