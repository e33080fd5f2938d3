package store

import (
	"sync"
	"time"

	"ge-tracker/src/models"
)

// -----------------------------------------------------------------------------
// Market Store
// -----------------------------------------------------------------------------

// Snapshot is a consistent point-in-time copy of the three market tables.
// It is detached from the store: holders may read it without further
// synchronization and must not see later refreshes bleed in.
type Snapshot struct {
	Mapping   map[int]models.MItemMeta
	Latest    map[int]models.MPriceQuote
	Hourly    map[int]models.MVolume
	FetchedAt time.Time
}

// Store owns the latest fetched market tables. The refresh scheduler is the
// sole writer; everything else reads through Snapshot. Readers copy the
// tables under a short read lock instead of holding the lock while they
// work, so a continuous stream of snapshots cannot starve Replace.
type Store struct {
	mu      sync.RWMutex
	mapping map[int]models.MItemMeta
	latest  map[int]models.MPriceQuote
	hourly  map[int]models.MVolume
	updated time.Time
}

// -----------------------------------------------------------------------------

func NewStore() *Store {
	return &Store{
		mapping: make(map[int]models.MItemMeta),
		latest:  make(map[int]models.MPriceQuote),
		hourly:  make(map[int]models.MVolume),
	}
}

// -----------------------------------------------------------------------------

// Replace swaps all three tables at once. A concurrent Snapshot observes
// either the full old triple or the full new one, never a mix. Nil arguments
// are stored as empty tables.
func (s *Store) Replace(mapping map[int]models.MItemMeta, latest map[int]models.MPriceQuote, hourly map[int]models.MVolume) {
	if mapping == nil {
		mapping = make(map[int]models.MItemMeta)
	}
	if latest == nil {
		latest = make(map[int]models.MPriceQuote)
	}
	if hourly == nil {
		hourly = make(map[int]models.MVolume)
	}

	s.mu.Lock()
	s.mapping = mapping
	s.latest = latest
	s.hourly = hourly
	s.updated = time.Now()
	s.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Snapshot returns a copy of the current tables. Quote price pointers are
// shared between copies but never written after a fetch, so the shallow map
// copy is a full snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Mapping:   make(map[int]models.MItemMeta, len(s.mapping)),
		Latest:    make(map[int]models.MPriceQuote, len(s.latest)),
		Hourly:    make(map[int]models.MVolume, len(s.hourly)),
		FetchedAt: s.updated,
	}
	for id, meta := range s.mapping {
		snap.Mapping[id] = meta
	}
	for id, quote := range s.latest {
		snap.Latest[id] = quote
	}
	for id, vol := range s.hourly {
		snap.Hourly[id] = vol
	}
	return snap
}

// -----------------------------------------------------------------------------

// LastUpdated reports when Replace last ran; zero before the first refresh.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
