// File path: internal/tools/production.go
package tools

import (
	"math"

	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
)

const productionHorizonYears = 25

// ProductionReport is the output of the PV production model.
type ProductionReport struct {
	Site           geo.Point `json:"site"`
	CapacityMW     float64   `json:"capacity_mw"`
	DCCapacityMW   float64   `json:"dc_capacity_mw"`
	TiltDegrees    float64   `json:"tilt_degrees"`
	GHIDaily       float64   `json:"ghi_kwh_m2_day"`
	Year1MWh       float64   `json:"year1_mwh"`
	LifetimeMWh    float64   `json:"lifetime_mwh"`
	CapacityFactor float64   `json:"capacity_factor_pct"`
	SpecificYield  float64   `json:"specific_yield_kwh_kwp"`
	HorizonYears   int       `json:"horizon_years"`
}

// Production models realistic output from a daily GHI figure. A zero tilt
// selects the optimal tilt, approximately the absolute latitude.
func (t *Toolset) Production(site geo.Point, capacityMW, ghiDaily, tilt float64) ProductionReport {
	telemetry.RecordToolCall("production")
	if ghiDaily <= 0 {
		ghiDaily = 5.0
	}
	if tilt <= 0 {
		tilt = math.Abs(site.Lat)
	}
	tiltFactor := 1.0
	if tilt <= 90 && site.Lat != 0 {
		tiltFactor = 1 + 0.1*(tilt/math.Abs(site.Lat)-1)
	}

	dcCapacityMW := capacityMW * t.cfg.DCACRatio
	dailyMWh := dcCapacityMW * ghiDaily * t.cfg.SystemEfficiency * tiltFactor
	year1MWh := dailyMWh * 365

	var lifetimeMWh float64
	for year := 0; year < productionHorizonYears; year++ {
		efficiency := t.cfg.SystemEfficiency * (1 - t.cfg.AnnualDegradation*float64(year))
		lifetimeMWh += dcCapacityMW * ghiDaily * efficiency * tiltFactor * 365
	}

	return ProductionReport{
		Site:           site,
		CapacityMW:     capacityMW,
		DCCapacityMW:   dcCapacityMW,
		TiltDegrees:    tilt,
		GHIDaily:       ghiDaily,
		Year1MWh:       year1MWh,
		LifetimeMWh:    lifetimeMWh,
		CapacityFactor: year1MWh * 1000 / (capacityMW * 8760 * 1000) * 100,
		SpecificYield:  year1MWh / capacityMW * 1000,
		HorizonYears:   productionHorizonYears,
	}
}
