// File path: internal/solar/nrel_test.go
package solar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sunward/solsite/internal/geo"
)

func TestEstimateBands(t *testing.T) {
	cases := []struct {
		lat     float64
		wantGHI float64
	}{
		{10, 6.0},
		{-20, 6.0},
		{30, 5.5},
		{37, 4.5},
		{55, 3.5},
	}
	for _, tc := range cases {
		got := Estimate(geo.Point{Lat: tc.lat, Lon: 0})
		if got.AnnualGHI != tc.wantGHI {
			t.Fatalf("lat %v: ghi = %v, want %v", tc.lat, got.AnnualGHI, tc.wantGHI)
		}
		if got.Source != "latitude-model" {
			t.Fatalf("source = %q", got.Source)
		}
	}
}

func TestResourceWithoutKeyUsesEstimate(t *testing.T) {
	c := &Client{baseURL: defaultBaseURL, httpClient: &http.Client{Timeout: time.Second}}
	res := c.Resource(context.Background(), geo.Point{Lat: 36.5, Lon: -121.0})
	if res.Source != "latitude-model" {
		t.Fatalf("source = %q, want latitude-model", res.Source)
	}
}

func TestResourceFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "demo" {
			t.Errorf("missing api key in %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"outputs":{"avg_ghi":{"annual":5.78},"avg_dni":{"annual":7.21}}}`))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, apiKey: "demo", httpClient: srv.Client()}
	res := c.Resource(context.Background(), geo.Point{Lat: 35.0, Lon: -117.0})
	if res.Source != "nrel" {
		t.Fatalf("source = %q, want nrel", res.Source)
	}
	if res.AnnualGHI != 5.78 || res.AnnualDNI != 7.21 {
		t.Fatalf("unexpected resource %+v", res)
	}
}

func TestResourceFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, apiKey: "demo", httpClient: srv.Client()}
	res := c.Resource(context.Background(), geo.Point{Lat: 35.0, Lon: -117.0})
	if res.Source != "latitude-model" {
		t.Fatalf("source = %q, want latitude-model fallback", res.Source)
	}
}
