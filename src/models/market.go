package models

// -----------------------------------------------------------------------------
// Market Data Structures (wire format of the price API)
// -----------------------------------------------------------------------------

// MItemMeta is one entry of the item mapping table.
type MItemMeta struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Members  bool   `json:"members"`
	BuyLimit int    `json:"limit"`
}

// MPriceQuote holds the most recent trade prices for an item. Buy price is
// the low (instant-sell) side, sell price the high (instant-buy) side. A nil
// field means no recent trade on that side.
type MPriceQuote struct {
	High     *float64 `json:"high"`
	HighTime int64    `json:"highTime"`
	Low      *float64 `json:"low"`
	LowTime  int64    `json:"lowTime"`
}

// MVolume holds the one-hour traded volumes for an item.
type MVolume struct {
	HighPriceVolume float64 `json:"highPriceVolume"`
	LowPriceVolume  float64 `json:"lowPriceVolume"`
}
