// File path: internal/solar/nrel.go
package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
)

const defaultBaseURL = "https://developer.nrel.gov/api/solar/solar_resource/v1.json"

// Resource is the annual solar resource at a site in kWh/m²/day.
type Resource struct {
	AnnualGHI float64 `json:"annual_ghi"`
	AnnualDNI float64 `json:"annual_dni"`
	Source    string  `json:"source"`
}

// Client fetches solar resource data from the NREL API, falling back to a
// latitude-band model when no API key is configured or the call fails.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient() *Client {
	base := strings.TrimSpace(os.Getenv("NREL_BASE_URL"))
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:    base,
		apiKey:     strings.TrimSpace(os.Getenv("NREL_API_KEY")),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Resource returns the measured solar resource when the API is reachable and
// the latitude-band estimate otherwise. It never fails outright.
func (c *Client) Resource(ctx context.Context, site geo.Point) Resource {
	telemetry.RecordToolCall("solar_resource")
	if c.apiKey == "" {
		return Estimate(site)
	}
	res, err := c.fetch(ctx, site)
	if err != nil {
		common.Logger().Warn("solar: NREL lookup failed, using estimate", "error", err)
		return Estimate(site)
	}
	return res
}

func (c *Client) fetch(ctx context.Context, site geo.Point) (Resource, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("lat", fmt.Sprintf("%.4f", site.Lat))
	params.Set("lon", fmt.Sprintf("%.4f", site.Lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Resource{}, fmt.Errorf("build NREL request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Resource{}, fmt.Errorf("call NREL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Resource{}, fmt.Errorf("NREL returned status %d", resp.StatusCode)
	}

	var payload struct {
		Outputs struct {
			AvgGHI struct {
				Annual float64 `json:"annual"`
			} `json:"avg_ghi"`
			AvgDNI struct {
				Annual float64 `json:"annual"`
			} `json:"avg_dni"`
		} `json:"outputs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Resource{}, fmt.Errorf("decode NREL response: %w", err)
	}
	if payload.Outputs.AvgGHI.Annual <= 0 {
		return Resource{}, fmt.Errorf("NREL has no data for %.2f,%.2f", site.Lat, site.Lon)
	}
	return Resource{
		AnnualGHI: payload.Outputs.AvgGHI.Annual,
		AnnualDNI: payload.Outputs.AvgDNI.Annual,
		Source:    "nrel",
	}, nil
}

// Estimate models the resource from the latitude band alone.
func Estimate(site geo.Point) Resource {
	lat := math.Abs(site.Lat)
	res := Resource{Source: "latitude-model"}
	switch {
	case lat < 23.5:
		res.AnnualGHI, res.AnnualDNI = 6.0, 7.5
	case lat < 35:
		res.AnnualGHI, res.AnnualDNI = 5.5, 7.0
	case lat < 50:
		res.AnnualGHI, res.AnnualDNI = 4.5, 5.5
	default:
		res.AnnualGHI, res.AnnualDNI = 3.5, 4.0
	}
	return res
}
