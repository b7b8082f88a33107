package realtime

import (
	"context"
	"sync"

	"FoodShare/domain"

	"github.com/gofiber/fiber/v2/log"
)

// Snapshotter reads the current state used to build pushes.
type Snapshotter interface {
	ListByCampus(ctx context.Context, campusID string) (domain.EventSet, error)
	GetBookmarks(ctx context.Context, userID string) ([]string, error)
}

type (
	pinSubscriber struct {
		campusID string
		ch       chan domain.EventSet
	}

	bookmarkSubscriber struct {
		userID string
		ch     chan []string
	}

	// Hub pushes full snapshots to subscribers whenever the broker reports a
	// change to any pin.
	Hub struct {
		broker Broker
		source Snapshotter

		mu        sync.Mutex
		pins      map[*pinSubscriber]struct{}
		bookmarks map[*bookmarkSubscriber]struct{}
	}
)

func NewHub(broker Broker, source Snapshotter) *Hub {
	return &Hub{
		broker:    broker,
		source:    source,
		pins:      make(map[*pinSubscriber]struct{}),
		bookmarks: make(map[*bookmarkSubscriber]struct{}),
	}
}

// Run consumes broker changes until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	changes, err := h.broker.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			h.drain(changes)
			h.Refresh(ctx)
		}
	}
}

// drain coalesces queued changes into the refresh about to happen.
func (h *Hub) drain(changes <-chan Change) {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Refresh sends a fresh snapshot to every subscriber.
func (h *Hub) Refresh(ctx context.Context) {
	h.mu.Lock()
	pins := make([]*pinSubscriber, 0, len(h.pins))
	for s := range h.pins {
		pins = append(pins, s)
	}
	marks := make([]*bookmarkSubscriber, 0, len(h.bookmarks))
	for s := range h.bookmarks {
		marks = append(marks, s)
	}
	h.mu.Unlock()

	snapshots := make(map[string]domain.EventSet)
	for _, s := range pins {
		set, ok := snapshots[s.campusID]
		if !ok {
			var err error
			set, err = h.source.ListByCampus(ctx, s.campusID)
			if err != nil {
				log.Errorf("realtime: snapshot for campus %s: %v", s.campusID, err)
				continue
			}
			snapshots[s.campusID] = set
		}
		h.sendPins(s, set)
	}

	ids := make(map[string][]string)
	for _, s := range marks {
		list, ok := ids[s.userID]
		if !ok {
			var err error
			list, err = h.source.GetBookmarks(ctx, s.userID)
			if err != nil {
				log.Errorf("realtime: bookmarks for user %s: %v", s.userID, err)
				continue
			}
			ids[s.userID] = list
		}
		h.sendBookmarks(s, list)
	}
}

// Subscribe returns a stream of campus snapshots starting with the current
// one. The stream is closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, campusID string) (<-chan domain.EventSet, error) {
	initial, err := h.source.ListByCampus(ctx, campusID)
	if err != nil {
		return nil, err
	}
	s := &pinSubscriber{campusID: campusID, ch: make(chan domain.EventSet, 1)}
	s.ch <- initial

	h.mu.Lock()
	h.pins[s] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.pins, s)
		close(s.ch)
		h.mu.Unlock()
	}()
	return s.ch, nil
}

// SubscribeBookmarks streams the ids of pins bookmarked by userID.
func (h *Hub) SubscribeBookmarks(ctx context.Context, userID string) (<-chan []string, error) {
	initial, err := h.source.GetBookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &bookmarkSubscriber{userID: userID, ch: make(chan []string, 1)}
	s.ch <- initial

	h.mu.Lock()
	h.bookmarks[s] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.bookmarks, s)
		close(s.ch)
		h.mu.Unlock()
	}()
	return s.ch, nil
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pins) + len(h.bookmarks)
}

// sendPins replaces an unread snapshot with the newer one.
func (h *Hub) sendPins(s *pinSubscriber, set domain.EventSet) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.pins[s]; !ok {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- set
}

func (h *Hub) sendBookmarks(s *bookmarkSubscriber, ids []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.bookmarks[s]; !ok {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- ids
}
