package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"ge-tracker/src/models"
)

// -----------------------------------------------------------------------------

var (
	// ErrSubscriptionClosed is returned by TrySend after Unregister ran.
	ErrSubscriptionClosed = errors.New("subscription closed")

	// ErrSendBufferFull marks a subscriber whose delivery buffer is full; the
	// dispatcher drops such subscribers instead of blocking on them.
	ErrSendBufferFull = errors.New("subscriber send buffer full")
)

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

// Subscription binds one delivery channel to its current filter
// configuration. The registry owns the binding; filter state and the closed
// flag are guarded by the subscription's own mutex so broadcasting to one
// subscriber never holds the registry lock.
type Subscription struct {
	id uuid.UUID

	mu      sync.Mutex
	filters models.MFilterConfig
	closed  bool
	send    chan interface{}
}

func newSubscription(send chan interface{}, defaults models.MFilterConfig) *Subscription {
	return &Subscription{
		id:      uuid.New(),
		filters: defaults,
		send:    send,
	}
}

// -----------------------------------------------------------------------------

func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// -----------------------------------------------------------------------------

// Filters returns a copy of the current configuration. Bound pointers are
// shared with the copy but replaced wholesale on merge, never written
// through, so the shallow copy stays consistent after the lock is released.
func (s *Subscription) Filters() models.MFilterConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// -----------------------------------------------------------------------------

// merge applies a partial update; a rejected update leaves the configuration
// untouched.
func (s *Subscription) merge(u models.MFilterUpdate) (models.MFilterConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.filters
	if err := cfg.Merge(u); err != nil {
		return s.filters, err
	}
	s.filters = cfg
	return cfg, nil
}

// -----------------------------------------------------------------------------

// TrySend delivers msg without blocking. A full buffer or a closed
// subscription is reported as an error; delivery never panics even when the
// subscriber is unregistered concurrently.
func (s *Subscription) TrySend(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSubscriptionClosed
	}
	select {
	case s.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// -----------------------------------------------------------------------------

// close closes the delivery channel exactly once, releasing the transport's
// write pump. Later TrySend calls observe the flag instead of the closed
// channel.
func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}
