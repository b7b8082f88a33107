package realtime

import (
	"context"
	"sync"
)

const (
	ChangeCreated  = "pin.created"
	ChangeUpdated  = "pin.updated"
	ChangeDeleted  = "pin.deleted"
	ChangeBookmark = "pin.bookmark"
	ChangeSeeded   = "pin.seeded"
)

// Change notifies that a document of the pins collection was written.
type Change struct {
	Type     string `json:"type"`
	PinID    string `json:"pin_id"`
	CampusID string `json:"campus_id"`
	UserID   string `json:"user_id,omitempty"`
}

type (
	// Broker carries change notifications between writers and hubs,
	// possibly across processes.
	Broker interface {
		Publish(ctx context.Context, change Change) error
		// Subscribe delivers changes until ctx is done, then closes the channel.
		Subscribe(ctx context.Context) (<-chan Change, error)
		Close() error
	}

	memoryBroker struct {
		mu     sync.Mutex
		subs   map[chan Change]struct{}
		closed bool
	}
)

const subscriberBuffer = 64

// NewMemoryBroker returns a broker for a single process.
func NewMemoryBroker() Broker {
	return &memoryBroker{subs: make(map[chan Change]struct{})}
}

func (b *memoryBroker) Publish(_ context.Context, change Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
			// A full buffer already guarantees a refresh.
		}
	}
	return nil
}

func (b *memoryBroker) Subscribe(ctx context.Context) (<-chan Change, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}
	ch := make(chan Change, subscriberBuffer)
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()
	return ch, nil
}

func (b *memoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}
