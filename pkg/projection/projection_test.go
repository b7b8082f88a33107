package projection

import (
	"fmt"
	"testing"
	"time"

	"FoodShare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nyc = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, -4*3600)
	}
	return loc
}

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04", value, nyc)
	if err != nil {
		panic(err)
	}
	return t
}

func pin(id, date, start, end string, cats ...domain.Category) domain.Pin {
	return domain.Pin{
		ID:        id,
		Title:     "event " + id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Category:  domain.NewCategorySet(cats...),
		CampusID:  "duke",
		Location:  domain.LatLng{Lat: 36.001, Lng: -78.94},
	}
}

func pinIDs(set domain.EventSet) []string {
	out := make([]string, len(set))
	for i, p := range set {
		out[i] = p.ID
	}
	return out
}

func entryIDs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestClassifyScenario(t *testing.T) {
	p := pin("a", "2025-06-01", "12:00", "14:00")

	assert.Equal(t, Live, Classify(p, at("2025-06-01T13:00"), nyc))
	assert.Equal(t, Past, Classify(p, at("2025-06-01T15:00"), nyc))
	assert.Equal(t, Upcoming, Classify(p, at("2025-05-01T00:00"), nyc))
}

func TestClassifyBoundariesAreLive(t *testing.T) {
	p := pin("a", "2025-06-01", "12:00", "14:00")
	assert.Equal(t, Live, Classify(p, at("2025-06-01T12:00"), nyc))
	assert.Equal(t, Live, Classify(p, at("2025-06-01T14:00"), nyc))
}

func TestClassifyUnclassifiable(t *testing.T) {
	now := at("2025-06-01T13:00")
	cases := []domain.Pin{
		pin("no-date", "", "12:00", "14:00"),
		pin("no-start", "2025-06-01", "", "14:00"),
		pin("no-end", "2020-01-01", "12:00", ""),
		pin("garbage", "June 1", "12:00", "14:00"),
		pin("bad-time", "2025-06-01", "noon", "14:00"),
	}
	for _, p := range cases {
		t.Run(p.ID, func(t *testing.T) {
			assert.Equal(t, Unclassifiable, Classify(p, now, nyc))
		})
	}
}

func TestClassifyIsPartition(t *testing.T) {
	events := []domain.Pin{
		pin("a", "2025-06-01", "12:00", "14:00"),
		pin("b", "2025-06-01", "09:00", "10:30"),
		pin("c", "2025-06-02", "00:00", "23:45"),
		pin("d", "2025-05-31", "18:00", "19:00"),
		pin("e", "2025-06-01", "14:00", "12:00"),
	}
	instants := []time.Time{
		at("2025-05-31T00:00"), at("2025-06-01T09:00"), at("2025-06-01T10:30"),
		at("2025-06-01T12:00"), at("2025-06-01T12:59"), at("2025-06-01T14:00"), at("2025-06-03T00:00"),
	}
	for _, now := range instants {
		for _, p := range events {
			s := Classify(p, now, nyc)
			buckets := 0
			for _, b := range []Status{Live, Upcoming, Past} {
				if s == b {
					buckets++
				}
			}
			assert.Equal(t, 1, buckets, "event %s at %s", p.ID, now)
		}
	}
}

func TestSidebarLiveFirstStable(t *testing.T) {
	now := at("2025-06-01T13:00")
	in := Input{
		Events: domain.EventSet{
			pin("up1", "2025-06-02", "10:00", "11:00"),
			pin("live1", "2025-06-01", "12:00", "14:00"),
			pin("up2", "2025-06-03", "10:00", "11:00"),
			pin("live2", "2025-06-01", "13:00", "13:30"),
			pin("past", "2025-05-01", "10:00", "11:00"),
		},
		CampusID: "duke",
		Now:      now,
		Location: nyc,
	}

	up := Sidebar(in, TabUpcoming)
	assert.Equal(t, []string{"live1", "live2", "up1", "up2"}, entryIDs(up))
	assert.True(t, up[0].Live)
	assert.False(t, up[2].Live)

	past := Sidebar(in, TabPast)
	assert.Equal(t, []string{"past"}, entryIDs(past))
}

func TestMapPinsNeverPast(t *testing.T) {
	in := Input{
		Events: domain.EventSet{
			pin("past", "2025-05-01", "10:00", "11:00"),
			pin("live", "2025-06-01", "12:00", "14:00"),
			pin("later", "2025-06-01", "18:00", "19:00"),
			pin("nodate", "", "18:00", "19:00"),
		},
		CampusID: "duke",
		Now:      at("2025-06-01T13:00"),
		Location: nyc,
	}
	assert.Equal(t, []string{"live", "later"}, pinIDs(MapPins(in)))
}

func TestCampusScope(t *testing.T) {
	other := pin("other", "2025-06-02", "10:00", "11:00")
	other.CampusID = "american-high"
	in := Input{
		Events:   domain.EventSet{other, pin("mine", "2025-06-02", "10:00", "11:00")},
		CampusID: "duke",
		Now:      at("2025-06-01T13:00"),
		Location: nyc,
	}
	assert.Equal(t, []string{"mine"}, pinIDs(MapPins(in)))
}

func TestCategoryFilter(t *testing.T) {
	now := at("2025-06-01T08:00")
	events := domain.EventSet{
		pin("m", "2025-06-01", "10:00", "11:00", domain.CategoryMains),
		pin("dd", "2025-06-01", "10:00", "11:00", domain.CategoryDrinks, domain.CategoryDesserts),
		pin("none", "2025-06-01", "10:00", "11:00"),
	}

	all := Apply(events, Criteria{}, now, nyc)
	assert.Len(t, all, 3)

	drinks := Apply(events, Criteria{Categories: domain.NewCategorySet(domain.CategoryDrinks)}, now, nyc)
	assert.Equal(t, []string{"dd"}, pinIDs(drinks))

	either := Apply(events, Criteria{Categories: domain.NewCategorySet(domain.CategoryMains, domain.CategoryDesserts)}, now, nyc)
	assert.Equal(t, []string{"m", "dd"}, pinIDs(either))
}

func TestTodayFilterUsesLocalDate(t *testing.T) {
	// 23:30 in New York is already the next day in UTC.
	now := at("2025-06-01T23:30")
	events := domain.EventSet{
		pin("today", "2025-06-01", "23:00", "23:59"),
		pin("tomorrow", "2025-06-02", "10:00", "11:00"),
	}
	got := Apply(events, Criteria{TodayOnly: true}, now, nyc)
	assert.Equal(t, []string{"today"}, pinIDs(got))
}

func TestHourBoundsAreNumeric(t *testing.T) {
	now := at("2025-06-01T00:00")
	events := domain.EventSet{
		pin("early", "2025-06-01", "08:00", "09:00"),
		pin("nine", "2025-06-01", "09:00", "10:00"),
		pin("ten", "2025-06-01", "10:00", "11:00"),
		pin("evening", "2025-06-01", "18:00", "21:00"),
		pin("untimed", "2025-06-01", "", ""),
	}

	from9 := Apply(events, Criteria{StartHour: 9, StartAmPm: domain.AM}, now, nyc)
	assert.Equal(t, []string{"nine", "ten", "evening", "untimed"}, pinIDs(from9))

	until8pm := Apply(events, Criteria{EndHour: 8, EndAmPm: domain.PM}, now, nyc)
	assert.Equal(t, []string{"early", "nine", "ten", "untimed"}, pinIDs(until8pm))

	noonOnly := Apply(events, Criteria{StartHour: 12, StartAmPm: domain.PM, EndHour: 11, EndAmPm: domain.PM}, now, nyc)
	assert.Equal(t, []string{"evening", "untimed"}, pinIDs(noonOnly))

	midnight := Apply(events, Criteria{StartHour: 12, StartAmPm: domain.AM}, now, nyc)
	assert.Len(t, midnight, len(events))
}

func TestProjectIsDeterministic(t *testing.T) {
	events := make(domain.EventSet, 0, 30)
	for i := 0; i < 30; i++ {
		day := fmt.Sprintf("2025-06-%02d", 1+i%5)
		cat := domain.AllCategories[i%3]
		events = append(events, pin(fmt.Sprintf("p%02d", i), day, "12:00", "14:00", cat))
	}
	in := Input{
		Events:   events,
		CampusID: "duke",
		Criteria: Criteria{Categories: domain.NewCategorySet(domain.CategoryMains, domain.CategoryDrinks)},
		Now:      at("2025-06-02T13:00"),
		Location: nyc,
	}

	first := Project(in, TabUpcoming)
	second := Project(in, TabUpcoming)
	require.Equal(t, first, second)

	again := Project(Input{
		Events:   first.MapPins,
		CampusID: in.CampusID,
		Criteria: in.Criteria,
		Now:      in.Now,
		Location: in.Location,
	}, TabUpcoming)
	assert.Equal(t, first.MapPins, again.MapPins)
}

func TestCriteriaFromSettingsDefaults(t *testing.T) {
	c := CriteriaFromSettings(domain.FilterSettings{StartHour: 3})
	assert.Equal(t, domain.AM, c.StartAmPm)
	assert.Equal(t, domain.PM, c.EndAmPm)
	assert.Equal(t, TabPast, ParseTab("past"))
	assert.Equal(t, TabUpcoming, ParseTab("whatever"))
}
