// File path: internal/geo/geo_test.go
package geo

import (
	"math"
	"testing"
)

func TestExtractCoordinatesDecorated(t *testing.T) {
	p, ok := ExtractCoordinates("Is it feasible to build a 20 MW solar farm at 37.2 N, -121.9 W?")
	if !ok {
		t.Fatalf("expected coordinates")
	}
	if p.Lat != 37.2 {
		t.Fatalf("lat = %v, want 37.2", p.Lat)
	}
	if p.Lon != -121.9 {
		t.Fatalf("lon = %v, want -121.9", p.Lon)
	}
}

func TestExtractCoordinatesSouthWestSigns(t *testing.T) {
	p, ok := ExtractCoordinates("site at 23.5 S, 133.8 W")
	if !ok {
		t.Fatalf("expected coordinates")
	}
	if p.Lat != -23.5 {
		t.Fatalf("lat = %v, want -23.5", p.Lat)
	}
	if p.Lon != -133.8 {
		t.Fatalf("lon = %v, want -133.8", p.Lon)
	}
}

func TestExtractCoordinatesBarePair(t *testing.T) {
	p, ok := ExtractCoordinates("Analyze the feasibility of a 50MW solar farm at coordinates 36.1699, -115.1398")
	if !ok {
		t.Fatalf("expected coordinates")
	}
	if p.Lat != 36.1699 || p.Lon != -115.1398 {
		t.Fatalf("got %+v", p)
	}
}

func TestExtractCoordinatesAbsent(t *testing.T) {
	if _, ok := ExtractCoordinates("Compare solar costs and incentives between California and Texas"); ok {
		t.Fatalf("expected no coordinates")
	}
}

func TestExtractCoordinatesIgnoresCapacity(t *testing.T) {
	// The digits of "50 MW" must not be split into a "5, 0" pair.
	if _, ok := ExtractCoordinates("what would a 50 MW project cost?"); ok {
		t.Fatalf("expected no coordinates")
	}
}

func TestExtractCoordinatesRejectsOutOfRange(t *testing.T) {
	// Year/number pairs outside valid ranges must not be mistaken for
	// coordinates.
	if _, ok := ExtractCoordinates("trends for 2024, 500 installations"); ok {
		t.Fatalf("expected no coordinates")
	}
}

func TestExtractCoordinatePairs(t *testing.T) {
	points := ExtractCoordinatePairs("deliver power from 37.2, -121.9 to San Jose at 37.3, -122.0")
	if len(points) != 2 {
		t.Fatalf("pairs = %d, want 2", len(points))
	}
	if points[0].Lat != 37.2 || points[1].Lon != -122.0 {
		t.Fatalf("got %+v", points)
	}
}

func TestExtractCapacity(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"a 20 MW solar farm", 20},
		{"a 50MW project", 50},
		{"a 12.5 mw array", 12.5},
		{"no capacity named", DefaultCapacityMW},
	}
	for _, tc := range cases {
		if got := ExtractCapacity(tc.text); got != tc.want {
			t.Errorf("ExtractCapacity(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// San Francisco to Los Angeles, roughly 559 km.
	sf := Point{Lat: 37.7749, Lon: -122.4194}
	la := Point{Lat: 34.0522, Lon: -118.2437}
	dist := Haversine(sf, la)
	if math.Abs(dist-559) > 10 {
		t.Fatalf("distance = %v km, want ~559", dist)
	}
}

func TestHaversineZero(t *testing.T) {
	p := Point{Lat: 37.2, Lon: -121.9}
	if d := Haversine(p, p); d != 0 {
		t.Fatalf("distance = %v, want 0", d)
	}
}
