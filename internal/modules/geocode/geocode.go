// Package geocode turns free-text delivery addresses into coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/medexpress-backend/internal/platform/apperr"
)

// Location is a resolved coordinate pair.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Geocoder resolves an address to a location. An address that cannot be resolved
// yields an apperr NotFound error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// Recorder counts lookups by result. *metrics.Metrics satisfies it.
type Recorder interface {
	GeocodeLookup(result string)
}

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	recorder   Recorder
}

// NewClient creates a geocoding client against baseURL, e.g. https://nominatim.openstreetmap.org.
func NewClient(baseURL, userAgent string, timeout time.Duration, recorder Recorder) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		recorder:   recorder,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, apperr.Validation("delivery address is required")
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.GeocodeLookup("error")
		return Location{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		c.recorder.GeocodeLookup("error")
		return Location{}, fmt.Errorf("geocode %q: unexpected status %d", address, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.recorder.GeocodeLookup("error")
		return Location{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		c.recorder.GeocodeLookup("miss")
		return Location{}, apperr.NotFound("could not locate delivery address %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		c.recorder.GeocodeLookup("error")
		return Location{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		c.recorder.GeocodeLookup("error")
		return Location{}, fmt.Errorf("parse longitude: %w", err)
	}
	c.recorder.GeocodeLookup("hit")
	return Location{Longitude: lon, Latitude: lat}, nil
}

// Disabled is used when no geocoder is configured. Every lookup fails with NotFound,
// so callers must supply an explicit store.
type Disabled struct{}

func (Disabled) Geocode(context.Context, string) (Location, error) {
	return Location{}, apperr.NotFound("address lookup is not configured; choose a store")
}
