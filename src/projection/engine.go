package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ge-tracker/src/models"
	"ge-tracker/src/store"
)

// -----------------------------------------------------------------------------
// Projection Engine
// -----------------------------------------------------------------------------

// Project computes one subscriber's view of a market snapshot: enriched with
// profit figures, filtered, sorted, and truncated to the configured result
// cap. Pure and deterministic; the only failure mode is an unusable result
// cap, reported as models.ErrInvalidFilter.
func Project(snap store.Snapshot, f models.MFilterConfig) (*models.MUpdatePayload, error) {
	if f.MaxResults < 0 {
		return nil, fmt.Errorf("%w: max_results %d", models.ErrInvalidFilter, f.MaxResults)
	}

	mode := models.VolumeModeHourly
	if f.VolumeMode == models.VolumeModeDaily {
		mode = models.VolumeModeDaily
	}

	// Iterate ids in ascending order so equal sort keys keep a stable,
	// regeneration-independent order and repeated projections of the same
	// snapshot are identical.
	ids := make([]int, 0, len(snap.Latest))
	for id := range snap.Latest {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	search := strings.ToLower(f.Search)
	tags, tagActive := skillTags[f.Skill]

	items := make([]models.MResultItem, 0)
	for _, id := range ids {
		quote := snap.Latest[id]
		if quote.Low == nil || quote.High == nil {
			continue
		}
		buy, sell := *quote.Low, *quote.High
		if buy == 0 {
			// Profit percent is undefined at a zero buy price.
			continue
		}
		profit := sell - buy
		profitPct := profit / buy * 100

		vol := snap.Hourly[id].HighPriceVolume + snap.Hourly[id].LowPriceVolume
		if mode == models.VolumeModeDaily {
			vol *= 24
		}

		if f.MaxPrice != nil && buy > *f.MaxPrice {
			continue
		}
		if f.MinProfitGP != nil && profit < *f.MinProfitGP {
			continue
		}
		if f.MinProfitPct != nil && profitPct < *f.MinProfitPct {
			continue
		}
		if f.MinVolume != nil && vol < *f.MinVolume {
			continue
		}

		name := snap.Mapping[id].Name
		if name == "" {
			name = strconv.Itoa(id)
		}
		lowerName := strings.ToLower(name)

		if tagActive && !matchesAnyTag(lowerName, tags) {
			continue
		}
		if search != "" && !strings.Contains(lowerName, search) {
			continue
		}

		items = append(items, models.MResultItem{
			ID:        id,
			Name:      name,
			Buy:       buy,
			Sell:      sell,
			Profit:    profit,
			ProfitPct: profitPct,
			Volume:    vol,
		})
	}

	sortItems(items, f.Sort)

	if len(items) > f.MaxResults {
		items = items[:f.MaxResults]
	}

	return &models.MUpdatePayload{
		Type:  "update",
		Mode:  mode,
		Items: items,
	}, nil
}

// -----------------------------------------------------------------------------

func matchesAnyTag(lowerName string, tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(lowerName, tag) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// sortItems orders the result set: cost ascending by buy price, otherwise
// descending by profit percent or absolute profit (the default).
func sortItems(items []models.MResultItem, key string) {
	switch key {
	case models.SortCost:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Buy < items[j].Buy
		})
	case models.SortProfitPct:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ProfitPct > items[j].ProfitPct
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Profit > items[j].Profit
		})
	}
}
