// File path: internal/tools/tools.go
// Package tools implements the closed-form calculators behind the
// feasibility analysis: climate normals, yield, cost, transmission and grid
// connection estimates.
package tools

import (
	"fmt"
	"strings"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
)

// Toolset evaluates the stubbed site calculators with a shared Config.
type Toolset struct {
	cfg Config
}

func NewToolset(cfg Config) *Toolset {
	merged := DefaultConfig().Merge(cfg)
	return &Toolset{cfg: merged}
}

// Config returns the effective configuration.
func (t *Toolset) Config() Config {
	return t.cfg
}

// monthlyNormal is one row of the fixed climate table (California averages).
type monthlyNormal struct {
	month int
	tempC float64
	ghi   float64
}

var climateNormals = []monthlyNormal{
	{1, 12.5, 3.8},
	{2, 14.2, 4.9},
	{3, 16.8, 6.2},
	{4, 19.1, 7.4},
	{5, 22.3, 8.1},
	{6, 25.1, 8.7},
	{7, 27.8, 8.9},
	{8, 27.2, 8.2},
	{9, 24.9, 6.8},
	{10, 20.7, 5.1},
	{11, 16.1, 4.0},
	{12, 12.8, 3.5},
}

// WeatherCSV renders the monthly temperature and global horizontal
// irradiance table as CSV. The table is a fixed set of normals and does not
// vary with the coordinate.
func (t *Toolset) WeatherCSV(site geo.Point) string {
	telemetry.RecordToolCall("weather")
	common.Logger().Debug("tools: weather table requested", "lat", site.Lat, "lon", site.Lon)
	var b strings.Builder
	b.WriteString("month,temp_C,ghi_kWh_m2_day")
	for _, row := range climateNormals {
		fmt.Fprintf(&b, "\n%d,%.1f,%.1f", row.month, row.tempC, row.ghi)
	}
	return b.String()
}

// AnnualYieldMWh estimates annual production from the configured specific
// yield. The coordinate is accepted for interface parity but does not affect
// the fixed-yield model.
func (t *Toolset) AnnualYieldMWh(site geo.Point, capacityMW float64) float64 {
	telemetry.RecordToolCall("yield")
	dcCapacityKWp := capacityMW * 1000
	annualKWh := dcCapacityKWp * t.cfg.SpecificYieldKWhPerKWp
	annualMWh := annualKWh / 1000
	common.Logger().Debug("tools: yield estimated", "capacity_mw", capacityMW, "annual_mwh", annualMWh)
	return annualMWh
}

// CostEstimate holds capital and operating expenditure in $M.
type CostEstimate struct {
	CapexMillions       float64 `json:"capex_millions"`
	OpexMillionsPerYear float64 `json:"opex_millions_per_year"`
}

// CostModel returns capex and annual opex as simple multiples of capacity.
func (t *Toolset) CostModel(capacityMW float64) CostEstimate {
	telemetry.RecordToolCall("cost")
	est := CostEstimate{
		CapexMillions:       capacityMW * t.cfg.CapexPerMW,
		OpexMillionsPerYear: capacityMW * t.cfg.OpexPerMWPerYear,
	}
	common.Logger().Debug("tools: cost estimated", "capacity_mw", capacityMW,
		"capex_millions", est.CapexMillions, "opex_millions_per_year", est.OpexMillionsPerYear)
	return est
}

// TransmissionCost computes the annual wheeling cost in dollars for moving
// the given energy between two points. Distance is great-circle.
func (t *Toolset) TransmissionCost(src, dst geo.Point, annualMWh float64) (distanceKM, annualCostUSD float64) {
	telemetry.RecordToolCall("transmission")
	distanceKM = geo.Haversine(src, dst)
	costPerKWh := t.cfg.TransmissionCostPerKWhPer100KM * (distanceKM / 100.0)
	annualCostUSD = costPerKWh * annualMWh * 1000
	common.Logger().Debug("tools: transmission estimated",
		"distance_km", distanceKM, "annual_cost_usd", annualCostUSD)
	return distanceKM, annualCostUSD
}

// GridInfo describes the interconnection options near a site.
type GridInfo struct {
	Region            string `json:"region"`
	NearestSubstation string `json:"nearest_substation"`
	ConnectionCost    string `json:"connection_cost"`
}

func (g GridInfo) String() string {
	return fmt.Sprintf("Region: %s, Nearest substation: %s, Est. connection cost: %s",
		g.Region, g.NearestSubstation, g.ConnectionCost)
}

// GridConnection looks up interconnection data from the fixed regional table.
func (t *Toolset) GridConnection(site geo.Point) GridInfo {
	telemetry.RecordToolCall("grid")
	switch {
	case site.Lat >= 36.0 && site.Lat <= 38.0 && site.Lon >= -122.5 && site.Lon <= -120.0:
		return GridInfo{
			Region:            "Central Valley",
			NearestSubstation: "Los Banos 230kV",
			ConnectionCost:    "$75,000 - $150,000 per MW",
		}
	case site.Lat >= 34.0 && site.Lat < 36.0 && site.Lon >= -118.0 && site.Lon <= -115.0:
		return GridInfo{
			Region:            "Mojave Desert",
			NearestSubstation: "Kramer 500kV",
			ConnectionCost:    "$50,000 - $100,000 per MW",
		}
	default:
		return GridInfo{
			Region:            "Other California",
			NearestSubstation: "Regional 115kV",
			ConnectionCost:    "$100,000 - $300,000 per MW",
		}
	}
}
