package domain

import "errors"

var (
	MessageSuccessGetCampuses  = "campuses retrieved successfully"
	MessageSuccessRenderMap    = "map rendered successfully"
	MessageSuccessMapClick     = "map click resolved"
	MessageSuccessPublishMap   = "map snapshot published successfully"
	MessageSuccessGetWorkspace = "workspace retrieved successfully"
	MessageSuccessGetPage      = "page retrieved successfully"
	MessageFailedGetCampuses   = "failed to retrieve campuses"
	MessageFailedRenderMap     = "failed to render map"
	MessageFailedMapClick      = "failed to resolve map click"
	MessageFailedPublishMap    = "failed to publish map snapshot"
	MessageFailedGetWorkspace  = "failed to retrieve workspace"

	ErrUnknownCampus   = errors.New("unknown campus")
	ErrInvalidViewport = errors.New("invalid viewport size")
	ErrNotDraggable    = errors.New("marker is not draggable")
)

type (
	Bounds struct {
		North float64 `json:"north"`
		South float64 `json:"south"`
		East  float64 `json:"east"`
		West  float64 `json:"west"`
	}

	Campus struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Bounds      Bounds `json:"bounds"`
		Center      LatLng `json:"center"`
		TimeZone    string `json:"time_zone"`
	}

	MapClickRequest struct {
		X      float64 `json:"x" validate:"min=0"`
		Y      float64 `json:"y" validate:"min=0"`
		Width  int     `json:"width" validate:"required,min=64,max=4096"`
		Height int     `json:"height" validate:"required,min=64,max=4096"`
	}

	MapClickResponse struct {
		Kind     string  `json:"kind"`
		PinID    string  `json:"pin_id,omitempty"`
		Location *LatLng `json:"location,omitempty"`
		OffsetX  float64 `json:"offset_x"`
		OffsetY  float64 `json:"offset_y"`
	}

	MapSnapshotResponse struct {
		URL string `json:"url"`
	}

	// PageResponse describes the landing and campus picker pages that /map
	// redirects to.
	PageResponse struct {
		View          string   `json:"view"`
		Authenticated bool     `json:"authenticated"`
		Campuses      []Campus `json:"campuses,omitempty"`
	}
)

func (b Bounds) Contains(p LatLng) bool {
	return p.Lat <= b.North && p.Lat >= b.South && p.Lng <= b.East && p.Lng >= b.West
}
