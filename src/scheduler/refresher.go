package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ge-tracker/src/interfaces"
	"ge-tracker/src/logger"
	"ge-tracker/src/models"
	"ge-tracker/src/store"
)

// DefaultInterval is the refresh cadence when the config leaves it unset.
const DefaultInterval = 40 * time.Second

// -----------------------------------------------------------------------------
// Refresh Scheduler
// -----------------------------------------------------------------------------

// Refresher drives the fetch -> replace -> broadcast cycle on a fixed
// interval. It is the sole writer of the market store. A failed fetch aborts
// the whole cycle with no store mutation; the next tick is the only retry.
type Refresher struct {
	interval    time.Duration
	fetcher     interfaces.IMarketFetcher
	store       *store.Store
	broadcaster interfaces.IBroadcaster
	cache       interfaces.IItemCache // optional, may be nil
	logger      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// -----------------------------------------------------------------------------

func NewRefresher(interval time.Duration, fetcher interfaces.IMarketFetcher, st *store.Store,
	broadcaster interfaces.IBroadcaster, cache interfaces.IItemCache, log *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{
		interval:    interval,
		fetcher:     fetcher,
		store:       st,
		broadcaster: broadcaster,
		cache:       cache,
		logger:      log,
	}
}

// -----------------------------------------------------------------------------

// Start runs one refresh immediately, then loops on the interval until the
// context is cancelled. The interval is measured from the end of one cycle
// to the start of the next; jitter under slow fetches is accepted.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("Refresh scheduler started (interval %s)", r.interval)
}

// -----------------------------------------------------------------------------

// Stop cancels the loop and waits for the in-flight cycle, bounded by ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Refresh scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// -----------------------------------------------------------------------------

func (r *Refresher) run() {
	defer r.wg.Done()

	r.refresh()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}

// -----------------------------------------------------------------------------

// refresh runs one cycle: fetch the three datasets concurrently, replace the
// store, persist the item mapping, broadcast.
func (r *Refresher) refresh() {
	start := time.Now()

	var (
		mapping map[int]models.MItemMeta
		latest  map[int]models.MPriceQuote
		hourly  map[int]models.MVolume
	)

	g, ctx := errgroup.WithContext(r.ctx)
	g.Go(func() error {
		var err error
		mapping, err = r.fetcher.FetchMapping(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = r.fetcher.FetchLatest(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = r.fetcher.FetchHourly(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("Refresh cycle aborted: %v", err)
		return
	}

	r.store.Replace(mapping, latest, hourly)

	if r.cache != nil {
		items := make([]models.MItemMeta, 0, len(mapping))
		for _, meta := range mapping {
			items = append(items, meta)
		}
		if err := r.cache.SaveItems(items); err != nil {
			r.logger.Warning("Item cache update failed: %v", err)
		}
	}

	r.broadcaster.BroadcastAll()

	r.logger.Info("Refresh cycle complete: %d items, %d quotes in %s",
		len(mapping), len(latest), time.Since(start).Round(time.Millisecond))
}
