package workspace

import (
	"FoodShare/domain"
	"FoodShare/internal/utils/storage"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/mapview"
	"FoodShare/pkg/projection"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	DefaultMapWidth  = 800
	DefaultMapHeight = 600
	snapshotFolder   = "maps"
)

type (
	PinLister interface {
		ListByCampus(ctx context.Context, campusID string) (domain.EventSet, error)
	}

	ProfileSource interface {
		Me(ctx context.Context, userID string) (*domain.UserProfile, error)
	}

	// Workspace is what the map page needs on first load.
	Workspace struct {
		Campus  domain.Campus       `json:"campus"`
		Profile *domain.UserProfile `json:"profile"`
		View    projection.View     `json:"view"`
	}

	MapRequest struct {
		CampusID   string
		UserID     string
		Width      int
		Height     int
		SelectedID string
		EditingID  string
	}

	WorkspaceService interface {
		Route(authenticated bool, campusParam string) (campus.View, domain.Campus)
		Load(ctx context.Context, userID string, c domain.Campus, tab projection.Tab) (*Workspace, error)
		Project(ctx context.Context, userID string, campusID string, tab projection.Tab) (*projection.View, error)
		RenderMap(ctx context.Context, req MapRequest) ([]byte, error)
		Click(ctx context.Context, userID string, campusID string, req domain.MapClickRequest) (*domain.MapClickResponse, error)
		PublishSnapshot(ctx context.Context, campusID string) (*domain.MapSnapshotResponse, error)
	}

	workspaceService struct {
		pins     PinLister
		profiles ProfileSource
		s3       storage.AwsS3
		fallback *time.Location
		now      func() time.Time

		mu        sync.Mutex
		snapshots map[string]string
	}
)

func NewWorkspaceService(pins PinLister, profiles ProfileSource, s3 storage.AwsS3, fallback *time.Location) WorkspaceService {
	return &workspaceService{
		pins:      pins,
		profiles:  profiles,
		s3:        s3,
		fallback:  fallback,
		now:       time.Now,
		snapshots: make(map[string]string),
	}
}

func (s *workspaceService) Route(authenticated bool, campusParam string) (campus.View, domain.Campus) {
	return campus.Route(authenticated, campusParam)
}

// criteria returns the caller's saved filters; anonymous callers get none.
func (s *workspaceService) criteria(ctx context.Context, userID string) (projection.Criteria, *domain.UserProfile, error) {
	if userID == "" || s.profiles == nil {
		return projection.CriteriaFromSettings(domain.DefaultFilterSettings()), nil, nil
	}
	profile, err := s.profiles.Me(ctx, userID)
	if err != nil {
		return projection.Criteria{}, nil, err
	}
	return projection.CriteriaFromSettings(profile.Filters), profile, nil
}

func (s *workspaceService) input(ctx context.Context, c domain.Campus, criteria projection.Criteria) (projection.Input, error) {
	events, err := s.pins.ListByCampus(ctx, c.ID)
	if err != nil {
		return projection.Input{}, err
	}
	return projection.Input{
		Events:   events,
		CampusID: c.ID,
		Criteria: criteria,
		Now:      s.now(),
		Location: campus.Location(c, s.fallback),
	}, nil
}

func (s *workspaceService) Load(ctx context.Context, userID string, c domain.Campus, tab projection.Tab) (*Workspace, error) {
	criteria, profile, err := s.criteria(ctx, userID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(ctx, c, criteria)
	if err != nil {
		return nil, err
	}
	return &Workspace{Campus: c, Profile: profile, View: projection.Project(in, tab)}, nil
}

func (s *workspaceService) Project(ctx context.Context, userID string, campusID string, tab projection.Tab) (*projection.View, error) {
	c, err := campus.Resolve(campusID)
	if err != nil {
		return nil, err
	}
	criteria, _, err := s.criteria(ctx, userID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(ctx, c, criteria)
	if err != nil {
		return nil, err
	}
	view := projection.Project(in, tab)
	return &view, nil
}

// markers returns the viewport and markers for the visible pins of a campus.
func (s *workspaceService) markers(ctx context.Context, req MapRequest) (domain.Campus, mapview.Viewport, []mapview.Marker, error) {
	c, err := campus.Resolve(req.CampusID)
	if err != nil {
		return domain.Campus{}, mapview.Viewport{}, nil, err
	}
	if req.Width == 0 {
		req.Width = DefaultMapWidth
	}
	if req.Height == 0 {
		req.Height = DefaultMapHeight
	}
	v, err := mapview.Fit(c.Bounds, req.Width, req.Height)
	if err != nil {
		return domain.Campus{}, mapview.Viewport{}, nil, err
	}
	criteria, _, err := s.criteria(ctx, req.UserID)
	if err != nil {
		return domain.Campus{}, mapview.Viewport{}, nil, err
	}
	in, err := s.input(ctx, c, criteria)
	if err != nil {
		return domain.Campus{}, mapview.Viewport{}, nil, err
	}
	return c, v, mapview.Markers(projection.MapPins(in), req.SelectedID, req.EditingID, nil), nil
}

func (s *workspaceService) RenderMap(ctx context.Context, req MapRequest) ([]byte, error) {
	c, v, markers, err := s.markers(ctx, req)
	if err != nil {
		return nil, err
	}
	return mapview.RenderPNG(v, c.Bounds, markers)
}

func (s *workspaceService) Click(ctx context.Context, userID string, campusID string, req domain.MapClickRequest) (*domain.MapClickResponse, error) {
	_, v, markers, err := s.markers(ctx, MapRequest{
		CampusID: campusID,
		UserID:   userID,
		Width:    req.Width,
		Height:   req.Height,
	})
	if err != nil {
		return nil, err
	}
	res := v.HandleClick(markers, req.X, req.Y)
	return &res, nil
}

// PublishSnapshot uploads an unfiltered render of the campus map and
// removes the previously published one.
func (s *workspaceService) PublishSnapshot(ctx context.Context, campusID string) (*domain.MapSnapshotResponse, error) {
	if s.s3 == nil || !s.s3.Enabled() {
		return nil, storage.ErrStorageDisabled
	}
	data, err := s.RenderMap(ctx, MapRequest{CampusID: campusID})
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-%d", campusID, s.now().Unix())
	key, err := s.s3.UploadBytes(ctx, name, data, snapshotFolder, storage.AllowImage...)
	if err != nil {
		return nil, err
	}
	link := s.s3.GetPublicLinkKey(key)

	s.mu.Lock()
	previous := s.snapshots[campusID]
	s.snapshots[campusID] = link
	s.mu.Unlock()

	if previous != "" && previous != link {
		if oldKey := s.s3.GetObjectKeyFromLink(previous); oldKey != "" {
			if err := s.s3.DeleteFile(ctx, oldKey); err != nil {
				log.Warnf("delete old map snapshot %s: %v", oldKey, err)
			}
		}
	}
	return &domain.MapSnapshotResponse{URL: link}, nil
}
