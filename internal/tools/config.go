// File path: internal/tools/config.go
package tools

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries the tunable factors behind the calculators. Values default
// to the published model assumptions and may be overridden via environment.
type Config struct {
	// SpecificYieldKWhPerKWp is the assumed annual specific yield.
	SpecificYieldKWhPerKWp float64 `json:"specific_yield_kwh_per_kwp"`
	// CapexPerMW is capital cost in $M per MW of AC capacity.
	CapexPerMW float64 `json:"capex_per_mw"`
	// OpexPerMWPerYear is operating cost in $M per MW per year.
	OpexPerMWPerYear float64 `json:"opex_per_mw_per_year"`
	// TransmissionCostPerKWhPer100KM is the wheeling charge applied per
	// 100 km of line distance.
	TransmissionCostPerKWhPer100KM float64 `json:"transmission_cost_per_kwh_per_100km"`

	// Production model assumptions.
	DCACRatio         float64 `json:"dc_ac_ratio"`
	SystemEfficiency  float64 `json:"system_efficiency"`
	AnnualDegradation float64 `json:"annual_degradation"`
}

func (c Config) Merge(override Config) Config {
	result := c
	if override.SpecificYieldKWhPerKWp > 0 {
		result.SpecificYieldKWhPerKWp = override.SpecificYieldKWhPerKWp
	}
	if override.CapexPerMW > 0 {
		result.CapexPerMW = override.CapexPerMW
	}
	if override.OpexPerMWPerYear > 0 {
		result.OpexPerMWPerYear = override.OpexPerMWPerYear
	}
	if override.TransmissionCostPerKWhPer100KM > 0 {
		result.TransmissionCostPerKWhPer100KM = override.TransmissionCostPerKWhPer100KM
	}
	if override.DCACRatio > 0 {
		result.DCACRatio = override.DCACRatio
	}
	if override.SystemEfficiency > 0 {
		result.SystemEfficiency = override.SystemEfficiency
	}
	if override.AnnualDegradation > 0 {
		result.AnnualDegradation = override.AnnualDegradation
	}
	return result
}

// LoadConfig reads overrides from the environment and applies defaults.
func LoadConfig() (Config, error) {
	cfg := Config{}
	overrides := map[string]*float64{
		"SOLSITE_SPECIFIC_YIELD":       &cfg.SpecificYieldKWhPerKWp,
		"SOLSITE_CAPEX_PER_MW":         &cfg.CapexPerMW,
		"SOLSITE_OPEX_PER_MW_PER_YEAR": &cfg.OpexPerMWPerYear,
		"SOLSITE_TRANSMISSION_PER_KWH": &cfg.TransmissionCostPerKWhPer100KM,
		"SOLSITE_DC_AC_RATIO":          &cfg.DCACRatio,
		"SOLSITE_SYSTEM_EFFICIENCY":    &cfg.SystemEfficiency,
		"SOLSITE_ANNUAL_DEGRADATION":   &cfg.AnnualDegradation,
	}
	for name, target := range overrides {
		raw := strings.TrimSpace(os.Getenv(name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", name, err)
		}
		*target = value
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SpecificYieldKWhPerKWp <= 0 {
		c.SpecificYieldKWhPerKWp = 1600
	}
	if c.CapexPerMW <= 0 {
		c.CapexPerMW = 1.0
	}
	if c.OpexPerMWPerYear <= 0 {
		c.OpexPerMWPerYear = 0.020
	}
	if c.TransmissionCostPerKWhPer100KM <= 0 {
		c.TransmissionCostPerKWhPer100KM = 0.03
	}
	if c.DCACRatio <= 0 {
		c.DCACRatio = 1.2
	}
	if c.SystemEfficiency <= 0 {
		c.SystemEfficiency = 0.85
	}
	if c.AnnualDegradation <= 0 {
		c.AnnualDegradation = 0.005
	}
}

// DefaultConfig returns the model defaults without consulting the
// environment.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}
