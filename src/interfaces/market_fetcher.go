package interfaces

import (
	"context"

	"ge-tracker/src/models"
)

// -----------------------------------------------------------------------------
// IMarketFetcher defines the contract for the external price data source.
// -----------------------------------------------------------------------------

// IMarketFetcher retrieves the three market datasets from the remote price
// API. Calls are idempotent GETs; a failed call carries no retry policy of
// its own, the refresh scheduler simply tries again on its next tick.
type IMarketFetcher interface {

	// FetchMapping returns the item metadata table keyed by item id.
	FetchMapping(ctx context.Context) (map[int]models.MItemMeta, error)

	// FetchLatest returns the most recent buy/sell quotes keyed by item id.
	FetchLatest(ctx context.Context) (map[int]models.MPriceQuote, error)

	// FetchHourly returns the one-hour trade volumes keyed by item id.
	FetchHourly(ctx context.Context) (map[int]models.MVolume, error)
}
