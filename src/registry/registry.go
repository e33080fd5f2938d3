package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"ge-tracker/src/logger"
	"ge-tracker/src/models"
)

// ErrNotFound is returned for operations on unknown subscription ids.
var ErrNotFound = errors.New("subscription not found")

// -----------------------------------------------------------------------------
// Subscriber Registry
// -----------------------------------------------------------------------------

// Registry tracks every active subscription. Its mutex covers only the
// subscription table: registrations, removals, and filter updates on one
// subscriber never wait for delivery to another.
type Registry struct {
	mu       sync.RWMutex
	subs     map[uuid.UUID]*Subscription
	defaults models.MFilterConfig
	logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewRegistry(defaults models.MFilterConfig, log *logger.Logger) *Registry {
	return &Registry{
		subs:     make(map[uuid.UUID]*Subscription),
		defaults: defaults,
		logger:   log,
	}
}

// -----------------------------------------------------------------------------

// Register inserts a new subscription bound to send, carrying the default
// filter configuration.
func (r *Registry) Register(send chan interface{}) *Subscription {
	sub := newSubscription(send, r.defaults)

	r.mu.Lock()
	r.subs[sub.id] = sub
	count := len(r.subs)
	r.mu.Unlock()

	r.logger.Info("Subscriber %s registered (%d active)", sub.id, count)
	return sub
}

// -----------------------------------------------------------------------------

// Get returns the live subscription for id.
func (r *Registry) Get(id uuid.UUID) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	return sub, ok
}

// -----------------------------------------------------------------------------

// UpdateFilters merges a partial update into the subscription's
// configuration and returns the merged result. Unknown ids get ErrNotFound;
// a malformed bound gets models.ErrInvalidFilter and leaves the
// configuration unchanged.
func (r *Registry) UpdateFilters(id uuid.UUID, u models.MFilterUpdate) (models.MFilterConfig, error) {
	sub, ok := r.Get(id)
	if !ok {
		return models.MFilterConfig{}, ErrNotFound
	}
	return sub.merge(u)
}

// -----------------------------------------------------------------------------

// Unregister removes the binding and closes its delivery channel. Safe to
// call while a broadcast is in flight: the subscription's closed flag stops
// further deliveries, and a second Unregister is a no-op.
func (r *Registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	sub, ok := r.subs[id]
	if ok {
		delete(r.subs, id)
	}
	count := len(r.subs)
	r.mu.Unlock()

	if !ok {
		return
	}
	sub.close()
	r.logger.Info("Subscriber %s unregistered (%d active)", id, count)
}

// -----------------------------------------------------------------------------

// ForEach calls fn for every subscription present when the call started.
// The set is snapshotted under the lock and iterated outside it, so fn may
// register or unregister subscribers without deadlocking.
func (r *Registry) ForEach(fn func(*Subscription)) {
	r.mu.RLock()
	subs := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	for _, sub := range subs {
		fn(sub)
	}
}

// -----------------------------------------------------------------------------

// Len reports the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
