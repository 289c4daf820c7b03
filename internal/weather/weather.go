// File path: internal/weather/weather.go
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	wttrBaseURL        = "https://wttr.in"
)

// Conditions is a snapshot of current weather at a site.
type Conditions struct {
	TempC        float64 `json:"temp_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	CloudCover   float64 `json:"cloud_cover_pct"`
	Description  string  `json:"description"`
	WindSpeedMPS float64 `json:"wind_speed_mps"`
	Source       string  `json:"source"`
}

// Client reads current conditions from OpenWeatherMap when a key is set and
// from wttr.in otherwise.
type Client struct {
	owmURL     string
	wttrURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		owmURL:     openWeatherBaseURL,
		wttrURL:    wttrBaseURL,
		apiKey:     strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Current fetches live conditions, preferring OpenWeatherMap.
func (c *Client) Current(ctx context.Context, site geo.Point) (Conditions, error) {
	telemetry.RecordToolCall("weather_live")
	if c.apiKey != "" {
		cond, err := c.fromOpenWeather(ctx, site)
		if err == nil {
			return cond, nil
		}
		common.Logger().Warn("weather: OpenWeatherMap failed, trying wttr.in", "error", err)
	}
	return c.fromWttr(ctx, site)
}

func (c *Client) fromOpenWeather(ctx context.Context, site geo.Point) (Conditions, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", site.Lat))
	params.Set("lon", fmt.Sprintf("%.4f", site.Lon))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.owmURL+"?"+params.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("call OpenWeatherMap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("OpenWeatherMap returned status %d", resp.StatusCode)
	}

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Conditions{}, fmt.Errorf("decode OpenWeatherMap response: %w", err)
	}
	cond := Conditions{
		TempC:        payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		CloudCover:   payload.Clouds.All,
		WindSpeedMPS: payload.Wind.Speed,
		Source:       "openweathermap",
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
	}
	return cond, nil
}

func (c *Client) fromWttr(ctx context.Context, site geo.Point) (Conditions, error) {
	endpoint := fmt.Sprintf("%s/%.4f,%.4f?format=j1", c.wttrURL, site.Lat, site.Lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("build wttr request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("call wttr.in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Conditions{}, fmt.Errorf("wttr.in returned status %d", resp.StatusCode)
	}

	var payload struct {
		CurrentCondition []struct {
			TempC       string `json:"temp_C"`
			Humidity    string `json:"humidity"`
			CloudCover  string `json:"cloudcover"`
			WindKmph    string `json:"windspeedKmph"`
			WeatherDesc []struct {
				Value string `json:"value"`
			} `json:"weatherDesc"`
		} `json:"current_condition"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Conditions{}, fmt.Errorf("decode wttr.in response: %w", err)
	}
	if len(payload.CurrentCondition) == 0 {
		return Conditions{}, fmt.Errorf("wttr.in returned no current conditions")
	}
	cur := payload.CurrentCondition[0]
	cond := Conditions{
		TempC:       parseFloat(cur.TempC),
		HumidityPct: parseFloat(cur.Humidity),
		CloudCover:  parseFloat(cur.CloudCover),
		// wttr reports km/h.
		WindSpeedMPS: parseFloat(cur.WindKmph) / 3.6,
		Source:       "wttr.in",
	}
	if len(cur.WeatherDesc) > 0 {
		cond.Description = cur.WeatherDesc[0].Value
	}
	return cond, nil
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
