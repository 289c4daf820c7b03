// File path: internal/geocode/nominatim.go
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	userAgent        = "solsite/1.0 (site feasibility assistant)"
	maxResults       = 3
)

// Place is a geocoded location candidate.
type Place struct {
	DisplayName string    `json:"display_name"`
	Location    geo.Point `json:"location"`
	Type        string    `json:"type"`
}

// Client resolves place names through the Nominatim API. Nominatim rejects
// requests without an identifying User-Agent, so one is always set.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    nominatimBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search returns up to three candidates for the query.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	telemetry.RecordToolCall("geocode")
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call nominatim: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var payload []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	places := make([]Place, 0, len(payload))
	for _, row := range payload {
		lat, latErr := strconv.ParseFloat(row.Lat, 64)
		lon, lonErr := strconv.ParseFloat(row.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		places = append(places, Place{
			DisplayName: row.DisplayName,
			Location:    geo.Point{Lat: lat, Lon: lon},
			Type:        row.Type,
		})
		if len(places) == maxResults {
			break
		}
	}
	return places, nil
}
