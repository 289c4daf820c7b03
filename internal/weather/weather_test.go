// File path: internal/weather/weather_test.go
package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sunward/solsite/internal/geo"
)

func TestCurrentFromOpenWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("units missing from %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":21.4,"humidity":40},"clouds":{"all":5},` +
			`"weather":[{"description":"clear sky"}],"wind":{"speed":3.2}}`))
	}))
	defer srv.Close()

	c := &Client{owmURL: srv.URL, apiKey: "demo", httpClient: srv.Client()}
	cond, err := c.Current(context.Background(), geo.Point{Lat: 36.5, Lon: -121.0})
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cond.Source != "openweathermap" {
		t.Fatalf("source = %q", cond.Source)
	}
	if cond.TempC != 21.4 || cond.Description != "clear sky" {
		t.Fatalf("unexpected conditions %+v", cond)
	}
}

func TestCurrentFallsBackToWttr(t *testing.T) {
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer owm.Close()
	wttr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current_condition":[{"temp_C":"18","humidity":"55","cloudcover":"20",` +
			`"windspeedKmph":"36","weatherDesc":[{"value":"Sunny"}]}]}`))
	}))
	defer wttr.Close()

	c := &Client{owmURL: owm.URL, wttrURL: wttr.URL, apiKey: "demo", httpClient: owm.Client()}
	cond, err := c.Current(context.Background(), geo.Point{Lat: 36.5, Lon: -121.0})
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cond.Source != "wttr.in" {
		t.Fatalf("source = %q", cond.Source)
	}
	if cond.TempC != 18 || cond.Description != "Sunny" {
		t.Fatalf("unexpected conditions %+v", cond)
	}
	if cond.WindSpeedMPS != 10 {
		t.Fatalf("wind = %v m/s, want 10", cond.WindSpeedMPS)
	}
}
