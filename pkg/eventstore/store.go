package eventstore

import (
	"FoodShare/domain"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	// Source produces full snapshots of a campus. Both the HTTP client and
	// the in-process realtime hub satisfy it.
	Source interface {
		Subscribe(ctx context.Context, campusID string) (<-chan domain.EventSet, error)
	}

	BookmarkSource interface {
		SubscribeBookmarks(ctx context.Context, userID string) (<-chan []string, error)
	}

	Writer interface {
		CreatePin(ctx context.Context, req domain.CreatePinRequest) (*domain.CreatePinResponse, error)
		UpdatePin(ctx context.Context, id string, req domain.UpdatePinRequest) (*domain.Pin, error)
		DeletePin(ctx context.Context, id string) error
		ToggleBookmark(ctx context.Context, id string) (*domain.ToggleBookmarkResponse, error)
	}

	// Identity tells who is signed in. *session.Session satisfies it.
	Identity interface {
		UserID() string
	}

	PendingOp string

	// Pending is an acknowledged local write not yet reflected by a snapshot.
	Pending struct {
		Op       PendingOp
		CampusID string
		Pin      domain.Pin
	}

	// Store is the client's view of the pins collection: the latest snapshot
	// per campus with local writes layered on top until the next snapshot.
	Store struct {
		source    Source
		bookmarks BookmarkSource
		writer    Writer
		identity  Identity
		now       func() time.Time

		mu        sync.Mutex
		snapshots map[string]domain.EventSet
		pending   []Pending
		subs      map[*Subscription[domain.EventSet]]string
	}
)

var ErrNoBookmarkSource = errors.New("bookmark source not configured")

const (
	PendingCreate   PendingOp = "create"
	PendingUpdate   PendingOp = "update"
	PendingDelete   PendingOp = "delete"
	PendingBookmark PendingOp = "bookmark"
)

// New builds a store. bookmarks may be nil when bookmark streams are not
// needed.
func New(source Source, bookmarks BookmarkSource, writer Writer, identity Identity) *Store {
	return &Store{
		source:    source,
		bookmarks: bookmarks,
		writer:    writer,
		identity:  identity,
		now:       time.Now,
		snapshots: make(map[string]domain.EventSet),
		subs:      make(map[*Subscription[domain.EventSet]]string),
	}
}

// Subscribe streams the pins of campusID. A subscription that cannot be
// opened delivers one empty set and reports the failure through Err.
func (s *Store) Subscribe(ctx context.Context, campusID string) *Subscription[domain.EventSet] {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription[domain.EventSet](cancel)

	s.mu.Lock()
	s.subs[sub] = campusID
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			sub.finish()
		}()

		sets, err := s.source.Subscribe(ctx, campusID)
		if err != nil {
			log.Errorf("eventstore: subscribe to campus %s: %v", campusID, err)
			sub.fail(err, domain.EventSet{})
			<-ctx.Done()
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case set, ok := <-sets:
				if !ok {
					return
				}
				sub.emit(s.receive(campusID, set))
			}
		}
	}()
	return sub
}

// SubscribeBookmarks streams the ids bookmarked by the signed-in user.
func (s *Store) SubscribeBookmarks(ctx context.Context) *Subscription[[]string] {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription[[]string](cancel)

	go func() {
		defer sub.finish()

		userID := s.identity.UserID()
		var err error
		switch {
		case userID == "":
			err = domain.ErrNotSignedIn
		case s.bookmarks == nil:
			err = ErrNoBookmarkSource
		}
		if err != nil {
			sub.fail(err, []string{})
			<-ctx.Done()
			return
		}
		ids, err := s.bookmarks.SubscribeBookmarks(ctx, userID)
		if err != nil {
			log.Errorf("eventstore: subscribe to bookmarks: %v", err)
			sub.fail(err, []string{})
			<-ctx.Done()
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ids:
				if !ok {
					return
				}
				sub.emit(v)
			}
		}
	}()
	return sub
}

// receive stores a fresh snapshot, drops the campus's pending writes and
// returns what subscribers should see.
func (s *Store) receive(campusID string, set domain.EventSet) domain.EventSet {
	clean := normalize(set, campusID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[campusID] = clean
	s.pending = slices.DeleteFunc(s.pending, func(p Pending) bool {
		return p.CampusID == campusID
	})
	return s.mergeLocked(campusID)
}

// normalize keeps well-formed pins of campusID in snapshot order.
func normalize(set domain.EventSet, campusID string) domain.EventSet {
	out := make(domain.EventSet, 0, len(set))
	for _, p := range set.ByCampus(campusID) {
		if !wellFormed(p) {
			log.Warnf("eventstore: drop malformed pin %q", p.ID)
			continue
		}
		out = append(out, p)
	}
	return out
}

func wellFormed(p domain.Pin) bool {
	return p.ID != "" &&
		p.Location.Lat >= -90 && p.Location.Lat <= 90 &&
		p.Location.Lng >= -180 && p.Location.Lng <= 180
}

func (s *Store) mergeLocked(campusID string) domain.EventSet {
	base := s.snapshots[campusID]
	out := make(domain.EventSet, len(base))
	copy(out, base)

	for _, p := range s.pending {
		if p.CampusID != campusID {
			continue
		}
		idx := slices.IndexFunc(out, func(e domain.Pin) bool { return e.ID == p.Pin.ID })
		switch p.Op {
		case PendingCreate:
			if idx < 0 {
				out = append(out, p.Pin)
			}
		case PendingUpdate, PendingBookmark:
			if idx >= 0 {
				out[idx] = p.Pin
			}
		case PendingDelete:
			if idx >= 0 {
				out = slices.Delete(out, idx, idx+1)
			}
		}
	}
	return out
}

// Events returns the current merged view of campusID.
func (s *Store) Events(campusID string) domain.EventSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(campusID)
}

// IsPending reports whether pin id carries a local write that no snapshot
// has confirmed yet.
func (s *Store) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.pending, func(p Pending) bool { return p.Pin.ID == id })
}

// find looks id up in the merged view of every known campus.
func (s *Store) find(id string) (domain.Pin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for campusID := range s.snapshots {
		if p, ok := s.mergeLocked(campusID).Find(id); ok {
			return p, true
		}
	}
	return domain.Pin{}, false
}

// overlay records a pending write and pushes the merged view to the
// subscribers of its campus.
func (s *Store) overlay(p Pending) {
	s.mu.Lock()
	s.pending = append(s.pending, p)
	merged := s.mergeLocked(p.CampusID)
	targets := make([]*Subscription[domain.EventSet], 0)
	for sub, campusID := range s.subs {
		if campusID == p.CampusID {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.emit(merged)
	}
}

// Create submits a new event and returns its id. Without a signed-in user it
// fails with ErrNotSignedIn and sends nothing.
func (s *Store) Create(ctx context.Context, req domain.CreatePinRequest) (string, error) {
	userID := s.identity.UserID()
	if userID == "" {
		return "", domain.ErrNotSignedIn
	}
	res, err := s.writer.CreatePin(ctx, req)
	if err != nil {
		return "", err
	}

	cats, _ := domain.ParseCategoryList(req.Category)
	s.overlay(Pending{Op: PendingCreate, CampusID: req.CampusID, Pin: domain.Pin{
		ID:           res.ID,
		Title:        req.Title,
		Description:  req.Description,
		Host:         req.Host,
		Location:     req.Location,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Cost:         domain.CostFromFree(req.IsFree),
		Category:     cats,
		UserID:       userID,
		CreatedAt:    s.now(),
		CampusID:     req.CampusID,
		VotedUserIDs: []string{},
		BookmarkedBy: []string{},
	}})
	return res.ID, nil
}

// owned reports whether the signed-in user may write pin id. Unknown pins
// are left for the server to decide.
func (s *Store) owned(id string) bool {
	userID := s.identity.UserID()
	if userID == "" {
		return false
	}
	if p, ok := s.find(id); ok {
		return p.IsOwnedBy(userID)
	}
	return true
}

// Update changes the given fields. Non-owners are ignored without error.
func (s *Store) Update(ctx context.Context, id string, req domain.UpdatePinRequest) error {
	if !s.owned(id) {
		return nil
	}
	updated, err := s.writer.UpdatePin(ctx, id, req)
	if err != nil {
		if domain.IsPermissionError(err) {
			return nil
		}
		return err
	}
	if updated != nil {
		s.overlay(Pending{Op: PendingUpdate, CampusID: updated.CampusID, Pin: *updated})
	}
	return nil
}

// Delete removes the event. Non-owners are ignored without error.
func (s *Store) Delete(ctx context.Context, id string) error {
	p, known := s.find(id)
	if !s.owned(id) {
		return nil
	}
	if err := s.writer.DeletePin(ctx, id); err != nil {
		if domain.IsPermissionError(err) {
			return nil
		}
		return err
	}
	if known {
		s.overlay(Pending{Op: PendingDelete, CampusID: p.CampusID, Pin: p})
	}
	return nil
}

// ToggleBookmark adds the signed-in user to the pin's bookmarks, or removes
// them when already there, and reports the new state.
func (s *Store) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	userID := s.identity.UserID()
	if userID == "" {
		return false, domain.ErrNotSignedIn
	}
	res, err := s.writer.ToggleBookmark(ctx, id)
	if err != nil {
		return false, err
	}

	if p, ok := s.find(id); ok {
		marks := slices.DeleteFunc(slices.Clone(p.BookmarkedBy), func(u string) bool { return u == userID })
		if res.Bookmarked {
			marks = append(marks, userID)
		}
		p.BookmarkedBy = marks
		s.overlay(Pending{Op: PendingBookmark, CampusID: p.CampusID, Pin: p})
	}
	return res.Bookmarked, nil
}
