package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Built-in filter defaults, used when the config leaves them unset.
const (
	DefaultMinVolume  = 10
	DefaultMaxResults = 30

	SortProfit    = "profit"
	SortProfitPct = "profit_pct"
	SortCost      = "cost"

	VolumeModeHourly = "hourly"
	VolumeModeDaily  = "daily"
)

// ErrInvalidFilter marks a filter bound that could not be coerced to a
// number. Updates carrying one are rejected as a whole; the subscriber keeps
// its previous configuration.
var ErrInvalidFilter = errors.New("invalid filter value")

// -----------------------------------------------------------------------------
// Filter Configuration
// -----------------------------------------------------------------------------

// MFilterConfig is one subscriber's validated view configuration. A nil
// bound means the filter is absent: a bound set to zero is still enforced.
type MFilterConfig struct {
	Skill        string
	MaxPrice     *float64
	MinProfitGP  *float64
	MinProfitPct *float64
	MinVolume    *float64
	Sort         string
	MaxResults   int
	Search       string
	VolumeMode   string
}

// DefaultFilters returns the configuration assigned on connect. Zero values
// in d fall back to the built-in defaults.
func DefaultFilters(d MDefaultsConfig) MFilterConfig {
	minVol := float64(DefaultMinVolume)
	if d.MinVolume > 0 {
		minVol = d.MinVolume
	}
	maxResults := DefaultMaxResults
	if d.MaxResults > 0 {
		maxResults = d.MaxResults
	}
	return MFilterConfig{
		MinVolume:  &minVol,
		Sort:       SortProfit,
		MaxResults: maxResults,
		VolumeMode: VolumeModeHourly,
	}
}

// -----------------------------------------------------------------------------
// Flexible JSON scalars
// -----------------------------------------------------------------------------

// OptionalNumber is a numeric filter bound as received on the wire. Browsers
// send these as numbers, numeric strings, or null (clear the bound), so the
// decoder accepts all three. A non-numeric string is recorded as Invalid
// rather than failing the JSON decode, keeping "malformed bound" distinct
// from "malformed message".
type OptionalNumber struct {
	Present bool
	Null    bool
	Invalid bool
	Value   float64
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		n.Null = true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.Value = f
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			n.Null = true
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			n.Invalid = true
			return nil
		}
		n.Value = f
		return nil
	}

	n.Invalid = true
	return nil
}

// apply writes the bound into dst: null clears it, a value replaces it.
func (n OptionalNumber) apply(dst **float64) {
	if !n.Present {
		return
	}
	if n.Null {
		*dst = nil
		return
	}
	v := n.Value
	*dst = &v
}

// OptionalString distinguishes an omitted field (retain) from an explicit
// null or empty string (clear).
type OptionalString struct {
	Present bool
	Null    bool
	Value   string
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	s.Present = true
	if string(data) == "null" {
		s.Null = true
		return nil
	}
	return json.Unmarshal(data, &s.Value)
}

func (s OptionalString) apply(dst *string) {
	if !s.Present {
		return
	}
	if s.Null {
		*dst = ""
		return
	}
	*dst = s.Value
}

// -----------------------------------------------------------------------------
// Partial Updates
// -----------------------------------------------------------------------------

// MFilterUpdate is the payload of a set_filters message. Omitted fields
// retain the subscriber's prior values.
type MFilterUpdate struct {
	Type         string         `json:"type"`
	Skill        OptionalString `json:"skill"`
	MaxPrice     OptionalNumber `json:"max_price"`
	MinProfitGP  OptionalNumber `json:"min_profit_gp"`
	MinProfitPct OptionalNumber `json:"min_profit_pct"`
	MinVolume    OptionalNumber `json:"min_volume"`
	Sort         OptionalString `json:"sort"`
	MaxResults   OptionalNumber `json:"max_results"`
	Search       OptionalString `json:"search"`
	VolumeMode   OptionalString `json:"volume_mode"`
}

// Merge applies u on top of f. The update is validated in full before any
// field is written, so a rejected update leaves f untouched.
func (f *MFilterConfig) Merge(u MFilterUpdate) error {
	bounds := []struct {
		name string
		val  OptionalNumber
	}{
		{"max_price", u.MaxPrice},
		{"min_profit_gp", u.MinProfitGP},
		{"min_profit_pct", u.MinProfitPct},
		{"min_volume", u.MinVolume},
	}
	for _, b := range bounds {
		if b.val.Present && b.val.Invalid {
			return fmt.Errorf("%w: %s", ErrInvalidFilter, b.name)
		}
	}
	if u.MaxResults.Present {
		// Null or negative is an error here, not a silent default: the
		// result cap always has a value.
		if u.MaxResults.Invalid || u.MaxResults.Null || u.MaxResults.Value < 0 {
			return fmt.Errorf("%w: max_results", ErrInvalidFilter)
		}
	}

	u.Skill.apply(&f.Skill)
	u.MaxPrice.apply(&f.MaxPrice)
	u.MinProfitGP.apply(&f.MinProfitGP)
	u.MinProfitPct.apply(&f.MinProfitPct)
	u.MinVolume.apply(&f.MinVolume)
	u.Search.apply(&f.Search)

	if u.Sort.Present {
		u.Sort.apply(&f.Sort)
		if f.Sort == "" {
			f.Sort = SortProfit
		}
	}
	if u.VolumeMode.Present {
		// Anything other than "daily" (including null) falls back to hourly.
		if !u.VolumeMode.Null && u.VolumeMode.Value == VolumeModeDaily {
			f.VolumeMode = VolumeModeDaily
		} else {
			f.VolumeMode = VolumeModeHourly
		}
	}
	if u.MaxResults.Present {
		f.MaxResults = int(u.MaxResults.Value)
	}

	return nil
}
