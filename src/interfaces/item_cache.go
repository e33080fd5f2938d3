package interfaces

import "ge-tracker/src/models"

// -----------------------------------------------------------------------------
// IItemCache defines the contract for the item-metadata warm-start cache.
// -----------------------------------------------------------------------------

// IItemCache persists the current item mapping so names resolve after a
// restart before the first successful fetch. Only current metadata is
// stored, never price history.
type IItemCache interface {

	// Initialize sets up the schema.
	Initialize() error

	// SaveItems upserts the given metadata rows.
	SaveItems(items []models.MItemMeta) error

	// LoadItems returns all cached metadata keyed by item id.
	LoadItems() (map[int]models.MItemMeta, error)

	// Close the database connection
	Close() error
}
