package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"ge-tracker/src/logger"
	"ge-tracker/src/models"
)

// The wiki API asks consumers to identify themselves.
const defaultUserAgent = "ge-tracker (self-hosted flip dashboard)"

// -----------------------------------------------------------------------------
// Wiki Price Source
// -----------------------------------------------------------------------------

// Source fetches the three market datasets from the real-time prices API:
// the item mapping, the latest quotes, and the one-hour volumes. It is an
// opaque collaborator for the refresh scheduler and carries no retry policy
// of its own.
type Source struct {
	Config *models.MConfig
	Logger *logger.Logger
	client *resty.Client
}

// -----------------------------------------------------------------------------

func NewSource(cfg *models.MConfig, log *logger.Logger) *Source {
	timeout := cfg.Network.RequestTimeout
	if timeout <= 0 {
		timeout = 15
	}
	userAgent := cfg.Network.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(time.Duration(timeout) * time.Second)
	client.SetHeader("User-Agent", userAgent)

	return &Source{
		Config: cfg,
		Logger: log,
		client: client,
	}
}

// -----------------------------------------------------------------------------

// FetchMapping retrieves the item metadata table. Entries without a valid id
// are skipped.
func (s *Source) FetchMapping(ctx context.Context) (map[int]models.MItemMeta, error) {
	var entries []models.MItemMeta
	if err := s.getJSON(ctx, s.Config.DataSource.MappingURL, &entries); err != nil {
		return nil, err
	}

	mapping := make(map[int]models.MItemMeta, len(entries))
	for _, entry := range entries {
		if entry.ID <= 0 {
			continue
		}
		mapping[entry.ID] = entry
	}
	return mapping, nil
}

// -----------------------------------------------------------------------------

// FetchLatest retrieves the most recent quotes. The API keys items by their
// id rendered as a string; keys that do not parse are skipped.
func (s *Source) FetchLatest(ctx context.Context) (map[int]models.MPriceQuote, error) {
	var resp struct {
		Data map[string]models.MPriceQuote `json:"data"`
	}
	if err := s.getJSON(ctx, s.Config.DataSource.LatestURL, &resp); err != nil {
		return nil, err
	}

	latest := make(map[int]models.MPriceQuote, len(resp.Data))
	for key, quote := range resp.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		latest[id] = quote
	}
	return latest, nil
}

// -----------------------------------------------------------------------------

// FetchHourly retrieves the one-hour trade volumes.
func (s *Source) FetchHourly(ctx context.Context) (map[int]models.MVolume, error) {
	var resp struct {
		Data map[string]models.MVolume `json:"data"`
	}
	if err := s.getJSON(ctx, s.Config.DataSource.HourlyURL, &resp); err != nil {
		return nil, err
	}

	hourly := make(map[int]models.MVolume, len(resp.Data))
	for key, vol := range resp.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		hourly[id] = vol
	}
	return hourly, nil
}

// -----------------------------------------------------------------------------

func (s *Source) getJSON(ctx context.Context, url string, out interface{}) error {
	if url == "" {
		return fmt.Errorf("no URL configured")
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("bad status %d from %s", resp.StatusCode(), url)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
