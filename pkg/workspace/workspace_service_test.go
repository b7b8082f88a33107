package workspace

import (
	"bytes"
	"context"
	"testing"
	"time"

	"FoodShare/domain"
	"FoodShare/internal/utils/storage"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/mapview"
	"FoodShare/pkg/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePins struct{ events domain.EventSet }

func (f fakePins) ListByCampus(_ context.Context, campusID string) (domain.EventSet, error) {
	return f.events.ByCampus(campusID), nil
}

type fakeProfiles struct{ profile domain.UserProfile }

func (f fakeProfiles) Me(context.Context, string) (*domain.UserProfile, error) {
	p := f.profile
	return &p, nil
}

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

func (f *fakeS3) Enabled() bool { return true }

func (f *fakeS3) UploadBytes(_ context.Context, name string, data []byte, folder string, _ ...string) (string, error) {
	key := folder + "/" + name + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(key string) string { return "https://cdn.example/" + key }

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return link[len("https://cdn.example/"):]
}

var _ storage.AwsS3 = (*fakeS3)(nil)

func events() domain.EventSet {
	duke, _ := campus.Resolve("duke")
	return domain.EventSet{
		{ID: "live", CampusID: "duke", Date: "2025-06-01", StartTime: "12:00", EndTime: "14:00", Location: duke.Center, Category: domain.NewCategorySet(domain.CategoryMains)},
		{ID: "later", CampusID: "duke", Date: "2025-06-02", StartTime: "12:00", EndTime: "14:00", Location: duke.Center, Category: domain.NewCategorySet(domain.CategoryDrinks)},
		{ID: "old", CampusID: "duke", Date: "2025-05-01", StartTime: "12:00", EndTime: "14:00", Location: duke.Center},
		{ID: "elsewhere", CampusID: "american-high", Date: "2025-06-02", StartTime: "12:00", EndTime: "14:00"},
	}
}

func newService(profile domain.UserProfile, s3 storage.AwsS3) *workspaceService {
	svc := NewWorkspaceService(fakePins{events: events()}, fakeProfiles{profile: profile}, s3, time.UTC).(*workspaceService)
	ny, _ := time.LoadLocation("America/New_York")
	if ny == nil {
		ny = time.UTC
	}
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 13, 0, 0, 0, ny) }
	return svc
}

func TestProjectUsesSavedFilters(t *testing.T) {
	svc := newService(domain.UserProfile{Filters: domain.FilterSettings{
		Categories: domain.NewCategorySet(domain.CategoryDrinks),
	}}, nil)

	view, err := svc.Project(context.Background(), "user-1", "duke", projection.TabUpcoming)
	require.NoError(t, err)
	require.Len(t, view.MapPins, 1)
	assert.Equal(t, "later", view.MapPins[0].ID)

	anon, err := svc.Project(context.Background(), "", "duke", projection.TabUpcoming)
	require.NoError(t, err)
	assert.Len(t, anon.MapPins, 2)
	assert.True(t, anon.Sidebar[0].Live)

	past, err := svc.Project(context.Background(), "", "duke", projection.TabPast)
	require.NoError(t, err)
	require.Len(t, past.Sidebar, 1)
	assert.Equal(t, "old", past.Sidebar[0].ID)

	_, err = svc.Project(context.Background(), "", "nowhere", projection.TabUpcoming)
	assert.ErrorIs(t, err, domain.ErrUnknownCampus)
}

func TestLoadWorkspace(t *testing.T) {
	svc := newService(domain.UserProfile{ID: "user-1", SelectedCampus: "duke"}, nil)
	view, c := svc.Route(true, "duke")
	require.Equal(t, campus.ViewMap, view)

	ws, err := svc.Load(context.Background(), "user-1", c, projection.TabUpcoming)
	require.NoError(t, err)
	assert.Equal(t, "duke", ws.Campus.ID)
	assert.Equal(t, "user-1", ws.Profile.ID)
	assert.Len(t, ws.View.MapPins, 2)
}

func TestRenderAndClick(t *testing.T) {
	svc := newService(domain.UserProfile{}, nil)
	png, err := svc.RenderMap(context.Background(), MapRequest{CampusID: "duke", Width: 320, Height: 240})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	duke, _ := campus.Resolve("duke")
	v, err := mapview.Fit(duke.Bounds, 320, 240)
	require.NoError(t, err)
	x, y := v.ToPixel(duke.Center)

	res, err := svc.Click(context.Background(), "", "duke", domain.MapClickRequest{X: x, Y: y - 5, Width: 320, Height: 240})
	require.NoError(t, err)
	assert.Equal(t, mapview.ClickMarker, res.Kind)
	assert.Equal(t, "later", res.PinID)

	res, err = svc.Click(context.Background(), "", "duke", domain.MapClickRequest{X: 2, Y: 2, Width: 320, Height: 240})
	require.NoError(t, err)
	assert.Equal(t, mapview.ClickBackground, res.Kind)
	require.NotNil(t, res.Location)
}

func TestPublishSnapshotReplacesPrevious(t *testing.T) {
	s3 := &fakeS3{}
	svc := newService(domain.UserProfile{}, s3)
	ctx := context.Background()

	first, err := svc.PublishSnapshot(ctx, "duke")
	require.NoError(t, err)
	assert.Contains(t, first.URL, "https://cdn.example/maps/duke-")

	svc.now = func() time.Time { return time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC) }
	second, err := svc.PublishSnapshot(ctx, "duke")
	require.NoError(t, err)
	assert.NotEqual(t, first.URL, second.URL)
	assert.Equal(t, []string{s3.uploaded[0]}, s3.deleted)

	disabled := newService(domain.UserProfile{}, nil)
	_, err = disabled.PublishSnapshot(ctx, "duke")
	assert.ErrorIs(t, err, storage.ErrStorageDisabled)
}
