package dispatcher

import (
	"github.com/google/uuid"

	"ge-tracker/src/logger"
	"ge-tracker/src/projection"
	"ge-tracker/src/registry"
	"ge-tracker/src/store"
)

// -----------------------------------------------------------------------------
// Broadcast Dispatcher
// -----------------------------------------------------------------------------

// Dispatcher recomputes per-subscriber projections from the latest market
// snapshot and delivers them. Delivery failures are contained to the failing
// subscriber: it is unregistered and the iteration continues.
type Dispatcher struct {
	Store    *store.Store
	Registry *registry.Registry
	Logger   *logger.Logger
}

// -----------------------------------------------------------------------------

func NewDispatcher(st *store.Store, reg *registry.Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		Store:    st,
		Registry: reg,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

// BroadcastAll projects and delivers the current snapshot to every
// registered subscriber. One snapshot is taken up front and shared by all
// projections of this pass.
func (d *Dispatcher) BroadcastAll() {
	snap := d.Store.Snapshot()
	delivered := 0

	d.Registry.ForEach(func(sub *registry.Subscription) {
		if d.deliver(snap, sub) {
			delivered++
		}
	})

	d.Logger.Debug("Broadcast complete: %d subscribers", delivered)
}

// -----------------------------------------------------------------------------

// NotifyOne projects and delivers immediately for a single subscription,
// used after a filter change so the subscriber does not wait for the next
// refresh tick.
func (d *Dispatcher) NotifyOne(id uuid.UUID) error {
	sub, ok := d.Registry.Get(id)
	if !ok {
		return registry.ErrNotFound
	}
	d.deliver(d.Store.Snapshot(), sub)
	return nil
}

// -----------------------------------------------------------------------------

// deliver computes one subscriber's projection and pushes it on the
// subscriber's channel. Unusable filters skip the delivery but keep the
// subscription; a dead or saturated channel removes it.
func (d *Dispatcher) deliver(snap store.Snapshot, sub *registry.Subscription) bool {
	payload, err := projection.Project(snap, sub.Filters())
	if err != nil {
		d.Logger.Warning("Projection for subscriber %s failed: %v", sub.ID(), err)
		return false
	}

	if err := sub.TrySend(payload); err != nil {
		d.Logger.Info("Dropping subscriber %s: %v", sub.ID(), err)
		d.Registry.Unregister(sub.ID())
		return false
	}
	return true
}
