package eventform

import (
	"context"
	"testing"

	"FoodShare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	created []domain.CreatePinRequest
	updated map[string]domain.UpdatePinRequest
}

func (s *fakeStore) Create(_ context.Context, req domain.CreatePinRequest) (string, error) {
	s.created = append(s.created, req)
	return "new-id", nil
}

func (s *fakeStore) Update(_ context.Context, id string, req domain.UpdatePinRequest) error {
	if s.updated == nil {
		s.updated = map[string]domain.UpdatePinRequest{}
	}
	s.updated[id] = req
	return nil
}

func filled() Form {
	f := New(domain.LatLng{Lat: 36.001, Lng: -78.94}, "2025-06-01")
	f.Title = "Pizza"
	f.Description = "Leftover pizza from the club meeting"
	f.Host = "CS Club"
	f.Categories = domain.NewCategorySet(domain.CategoryMains)
	return f
}

func TestTimePartsRoundTripAllCombinations(t *testing.T) {
	count := 0
	for hour := 1; hour <= 12; hour++ {
		for _, minute := range Minutes {
			for _, ampm := range []string{domain.AM, domain.PM} {
				in := TimeParts{Hour: hour, Minute: minute, AmPm: ampm}
				hhmm, err := in.To24()
				require.NoError(t, err)
				out, err := FromClock(hhmm)
				require.NoError(t, err)
				assert.Equal(t, in, out, hhmm)
				count++
			}
		}
	}
	assert.Equal(t, 96, count)
}

func TestTimePartsTo24(t *testing.T) {
	s, err := TimeParts{Hour: 12, Minute: 30, AmPm: domain.AM}.To24()
	require.NoError(t, err)
	assert.Equal(t, "00:30", s)

	s, err = TimeParts{Hour: 1, Minute: 45, AmPm: domain.PM}.To24()
	require.NoError(t, err)
	assert.Equal(t, "13:45", s)

	_, err = TimeParts{Hour: 1, Minute: 10, AmPm: domain.PM}.To24()
	assert.ErrorIs(t, err, domain.ErrInvalidTime)
}

func TestNewDefaults(t *testing.T) {
	f := New(domain.LatLng{}, "2025-06-01")
	assert.Equal(t, TimeParts{Hour: 12, AmPm: domain.AM}, f.Start)
	assert.Equal(t, TimeParts{Hour: 1, AmPm: domain.PM}, f.End)
	assert.True(t, f.IsFree)
	assert.True(t, f.Categories.Empty())
}

func TestSubmitSignedOutSendsNothing(t *testing.T) {
	store := &fakeStore{}
	_, err := filled().Submit(context.Background(), "", "duke", store)
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	assert.Empty(t, store.created)

	err = filled().SubmitEdit(context.Background(), "", domain.Pin{ID: "x"}, store)
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	assert.Empty(t, store.updated)
}

func TestSubmitBuildsCreateRequest(t *testing.T) {
	store := &fakeStore{}
	id, err := filled().Submit(context.Background(), "user-1", "duke", store)
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	require.Len(t, store.created, 1)

	req := store.created[0]
	assert.Equal(t, "00:00", req.StartTime)
	assert.Equal(t, "13:00", req.EndTime)
	assert.Equal(t, []string{"mains"}, req.Category)
	assert.Equal(t, "duke", req.CampusID)
	assert.True(t, req.IsFree)
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	store := &fakeStore{}
	f := filled()
	f.Title = ""
	_, err := f.Submit(context.Background(), "user-1", "duke", store)
	assert.Error(t, err)
	assert.Empty(t, store.created)
}

func TestEditRoundTripSendsOnlyChanges(t *testing.T) {
	orig := domain.Pin{
		ID:          "pin-1",
		Title:       "Bagels",
		Description: "Morning bagels",
		Host:        "Dorm council",
		Location:    domain.LatLng{Lat: 36.002, Lng: -78.941},
		Date:        "2025-06-01",
		StartTime:   "08:15",
		EndTime:     "10:30",
		Cost:        domain.CostPaid,
		Category:    domain.NewCategorySet(domain.CategoryMains, domain.CategoryDrinks),
	}
	f, err := FromPin(orig)
	require.NoError(t, err)
	assert.Equal(t, TimeParts{Hour: 8, Minute: 15, AmPm: domain.AM}, f.Start)
	assert.False(t, f.IsFree)

	store := &fakeStore{}
	require.NoError(t, f.SubmitEdit(context.Background(), "owner", orig, store))
	assert.Empty(t, store.updated)

	f.End = TimeParts{Hour: 11, Minute: 0, AmPm: domain.AM}
	f.Categories = f.Categories.Toggle(domain.CategoryDrinks)
	require.NoError(t, f.SubmitEdit(context.Background(), "owner", orig, store))

	req := store.updated["pin-1"]
	require.NotNil(t, req.EndTime)
	assert.Equal(t, "11:00", *req.EndTime)
	require.NotNil(t, req.Category)
	assert.Equal(t, []string{"mains"}, *req.Category)
	assert.Nil(t, req.Title)
	assert.Nil(t, req.StartTime)
}

func TestFromPinWithoutTimesOpensAtMidnight(t *testing.T) {
	f, err := FromPin(domain.Pin{ID: "legacy", Title: "Donuts", Date: "2025-06-01", EndTime: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, Midnight, f.Start)
	assert.Equal(t, TimeParts{Hour: 9, Minute: 30, AmPm: domain.AM}, f.End)

	f, err = FromPin(domain.Pin{ID: "legacy"})
	require.NoError(t, err)
	assert.Equal(t, Midnight, f.Start)
	assert.Equal(t, Midnight, f.End)

	_, err = FromPin(domain.Pin{ID: "broken", StartTime: "25:99"})
	assert.Error(t, err)
}
