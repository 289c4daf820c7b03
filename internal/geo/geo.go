// File path: internal/geo/geo.go
// Package geo extracts coordinates and plant capacity from free-text queries
// and provides great-circle distance math for the transmission model.
package geo

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCapacityMW is assumed when a query names no capacity.
const DefaultCapacityMW = 20.0

const earthRadiusKM = 6371.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

var (
	// Decorated form first: optional degree sign and hemisphere suffixes,
	// e.g. "37.2 N, -121.9 W". The bare "lat, lon" form is the fallback.
	// The separator between the numbers is mandatory so a bare "50 MW"
	// cannot backtrack into a bogus "5, 0" pair.
	coordDecorated = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*°?\s*([NnSs])?(?:\s*,\s*|\s+)(-?\d+(?:\.\d+)?)\s*°?\s*([EeWw])?`)
	coordBare      = regexp.MustCompile(`(-?\d+(?:\.\d+)?),\s*(-?\d+(?:\.\d+)?)`)

	capacityPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*MW`)
)

// ExtractCoordinates returns the first latitude/longitude pair found in text.
// Hemisphere suffixes adjust sign: S forces a negative latitude, W a negative
// longitude. Candidates outside valid coordinate ranges are skipped.
func ExtractCoordinates(text string) (Point, bool) {
	for _, match := range coordDecorated.FindAllStringSubmatch(text, -1) {
		if p, ok := pointFromMatch(match[1], match[2], match[3], match[4]); ok {
			return p, true
		}
	}
	for _, match := range coordBare.FindAllStringSubmatch(text, -1) {
		if p, ok := pointFromMatch(match[1], "", match[2], ""); ok {
			return p, true
		}
	}
	return Point{}, false
}

// ExtractCoordinatePairs returns every valid coordinate pair in text, in
// order of appearance. Transmission queries use the first as the source and
// the second as the destination.
func ExtractCoordinatePairs(text string) []Point {
	var points []Point
	for _, match := range coordDecorated.FindAllStringSubmatch(text, -1) {
		if p, ok := pointFromMatch(match[1], match[2], match[3], match[4]); ok {
			points = append(points, p)
		}
	}
	return points
}

// ExtractCapacity returns the AC capacity in MW named by the query, or
// DefaultCapacityMW when absent.
func ExtractCapacity(text string) float64 {
	match := capacityPattern.FindStringSubmatch(text)
	if match == nil {
		return DefaultCapacityMW
	}
	capacity, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return DefaultCapacityMW
	}
	return capacity
}

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func pointFromMatch(latStr, latHemi, lonStr, lonHemi string) (Point, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return Point{}, false
	}
	if strings.EqualFold(latHemi, "s") {
		lat = -math.Abs(lat)
	}
	if strings.EqualFold(lonHemi, "w") {
		lon = -math.Abs(lon)
	}
	p := Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return Point{}, false
	}
	return p, true
}
