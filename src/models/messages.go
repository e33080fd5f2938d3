package models

// -----------------------------------------------------------------------------
// WebSocket Wire Messages
// -----------------------------------------------------------------------------

// MClientMessage is the envelope of an inbound subscriber message; Type
// selects the full decode ("set_filters" or "ping").
type MClientMessage struct {
	Type string `json:"type"`
}

// MResultItem is one enriched row of a projection.
type MResultItem struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Buy       float64 `json:"buy"`
	Sell      float64 `json:"sell"`
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
	Volume    float64 `json:"volume"`
}

// MUpdatePayload is the outbound projection message. Items is never nil so
// an empty result serializes as [].
type MUpdatePayload struct {
	Type  string        `json:"type"`
	Mode  string        `json:"mode"`
	Items []MResultItem `json:"items"`
}

// MPongPayload answers a keepalive ping.
type MPongPayload struct {
	Type string `json:"type"`
}
