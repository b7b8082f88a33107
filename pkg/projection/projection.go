package projection

import (
	"FoodShare/domain"
	"sort"
	"time"
)

type Tab string

const (
	TabUpcoming Tab = "upcoming"
	TabPast     Tab = "past"
)

func ParseTab(s string) Tab {
	if Tab(s) == TabPast {
		return TabPast
	}
	return TabUpcoming
}

// Criteria are the user-chosen filters. A zero hour means the bound is unset.
type Criteria struct {
	Categories domain.CategorySet
	TodayOnly  bool
	StartHour  int
	StartAmPm  string
	EndHour    int
	EndAmPm    string
}

func CriteriaFromSettings(f domain.FilterSettings) Criteria {
	f = f.Normalized()
	return Criteria{
		Categories: f.Categories,
		TodayOnly:  f.TodayOnly,
		StartHour:  f.StartHour,
		StartAmPm:  f.StartAmPm,
		EndHour:    f.EndHour,
		EndAmPm:    f.EndAmPm,
	}
}

// bound24 returns the 24-hour bound, or -1 when unset or invalid.
func bound24(hour int, ampm string) int {
	if hour == 0 {
		return -1
	}
	h, err := domain.To24Hour(hour, ampm)
	if err != nil {
		return -1
	}
	return h
}

// Entry is a sidebar row.
type Entry struct {
	domain.Pin
	Live bool `json:"live"`
}

type View struct {
	CampusID string          `json:"campus_id"`
	Tab      Tab             `json:"tab"`
	MapPins  domain.EventSet `json:"map_pins"`
	Sidebar  []Entry         `json:"sidebar"`
}

// Input bundles everything a projection depends on.
type Input struct {
	Events   domain.EventSet
	CampusID string
	Criteria Criteria
	Now      time.Time
	Location *time.Location
}

func (in Input) loc() *time.Location {
	if in.Location == nil {
		return time.Local
	}
	return in.Location
}

// Scoped drops events of other campuses.
func (in Input) Scoped() domain.EventSet {
	return in.Events.ByCampus(in.CampusID)
}

type matcher struct {
	c          Criteria
	today      string
	startBound int
	endBound   int
}

func newMatcher(c Criteria, now time.Time, loc *time.Location) matcher {
	if loc == nil {
		loc = time.Local
	}
	return matcher{
		c:          c,
		today:      now.In(loc).Format(domain.DateLayout),
		startBound: bound24(c.StartHour, c.StartAmPm),
		endBound:   bound24(c.EndHour, c.EndAmPm),
	}
}

func (m matcher) match(p domain.Pin) bool {
	if !m.c.Categories.Empty() && !p.Category.Intersects(m.c.Categories) {
		return false
	}
	if m.c.TodayOnly && p.Date != m.today {
		return false
	}
	// Events without a parsable time are not dropped by the hour bounds.
	if m.startBound >= 0 {
		if h, _, err := domain.ParseClock(p.StartTime); err == nil && h < m.startBound {
			return false
		}
	}
	if m.endBound >= 0 {
		if h, _, err := domain.ParseClock(p.EndTime); err == nil && h > m.endBound {
			return false
		}
	}
	return true
}

// Apply runs the category, today and time-of-day filters over events,
// preserving order.
func Apply(events domain.EventSet, c Criteria, now time.Time, loc *time.Location) domain.EventSet {
	m := newMatcher(c, now, loc)
	out := make(domain.EventSet, 0, len(events))
	for _, p := range events {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// MapPins returns live and upcoming events that pass the filters. Past and
// unclassifiable events never become pins.
func MapPins(in Input) domain.EventSet {
	loc := in.loc()
	visible := make(domain.EventSet, 0)
	for _, p := range in.Scoped() {
		switch Classify(p, in.Now, loc) {
		case Live, Upcoming:
			visible = append(visible, p)
		}
	}
	return Apply(visible, in.Criteria, in.Now, loc)
}

// Sidebar returns the rows of one tab, live rows first, otherwise in
// snapshot order.
func Sidebar(in Input, tab Tab) []Entry {
	loc := in.loc()
	scoped := in.Scoped()
	entries := make([]Entry, 0, len(scoped))
	for _, p := range scoped {
		status := Classify(p, in.Now, loc)
		if !inTab(status, tab) {
			continue
		}
		entries = append(entries, Entry{Pin: p, Live: status == Live})
	}
	SortLiveFirst(entries)

	m := newMatcher(in.Criteria, in.Now, loc)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if m.match(e.Pin) {
			out = append(out, e)
		}
	}
	return out
}

func inTab(s Status, tab Tab) bool {
	if tab == TabPast {
		return s == Past
	}
	return s == Live || s == Upcoming
}

// SortLiveFirst moves live entries ahead of the rest; ties keep their order.
func SortLiveFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Live && !entries[j].Live
	})
}

// Project builds the full view for one tab.
func Project(in Input, tab Tab) View {
	return View{
		CampusID: in.CampusID,
		Tab:      tab,
		MapPins:  MapPins(in),
		Sidebar:  Sidebar(in, tab),
	}
}
