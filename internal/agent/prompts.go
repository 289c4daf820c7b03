// File path: internal/agent/prompts.go
package agent

import (
	"fmt"
	"strings"

	"github.com/sunward/solsite/internal/geo"
	"github.com/sunward/solsite/internal/solar"
	"github.com/sunward/solsite/internal/tools"
)

const systemPrompt = "You are a solar site feasibility assistant for California. " +
	"Ground every claim in the analysis data you are given, quote concrete numbers, " +
	"and flag assumptions the developer should verify."

type feasibilityData struct {
	Site       geo.Point
	CapacityMW float64
	WeatherCSV string
	YieldMWh   float64
	Cost       tools.CostEstimate
	Grid       tools.GridInfo
	Resource   solar.Resource
	Production tools.ProductionReport
}

func feasibilityPrompt(query string, d feasibilityData) string {
	var b strings.Builder
	b.WriteString("Based on the following solar project analysis data, provide a comprehensive feasibility assessment:\n\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Project Details:\n")
	fmt.Fprintf(&b, "- Location: %.4f, %.4f\n", d.Site.Lat, d.Site.Lon)
	fmt.Fprintf(&b, "- Capacity: %.1f MW\n", d.CapacityMW)
	fmt.Fprintf(&b, "- Annual Energy Production: %.0f MWh/year\n", d.YieldMWh)
	fmt.Fprintf(&b, "- Capital Expenditure: $%.1f million\n", d.Cost.CapexMillions)
	fmt.Fprintf(&b, "- Operating Expenditure: $%.2f million/year\n", d.Cost.OpexMillionsPerYear)
	fmt.Fprintf(&b, "- Grid Connection: %s\n", d.Grid)
	fmt.Fprintf(&b, "- Solar Resource: %.1f kWh/m2/day GHI (%s)\n", d.Resource.AnnualGHI, d.Resource.Source)
	if d.Production.Year1MWh > 0 {
		fmt.Fprintf(&b, "- Modeled Year-1 Production: %.0f MWh (capacity factor %.1f%%, specific yield %.0f kWh/kWp)\n",
			d.Production.Year1MWh, d.Production.CapacityFactor, d.Production.SpecificYield)
		fmt.Fprintf(&b, "- Modeled %d-Year Production: %.0f MWh\n", d.Production.HorizonYears, d.Production.LifetimeMWh)
	}
	b.WriteString("\nWeather Data:\n")
	b.WriteString(d.WeatherCSV)
	b.WriteString("\n\nPlease provide a detailed feasibility assessment including:\n")
	b.WriteString("1. Technical feasibility (solar resource quality, grid connection)\n")
	b.WriteString("2. Economic analysis (ROI, payback period estimates)\n")
	b.WriteString("3. Key considerations and recommendations\n")
	return b.String()
}

type transmissionData struct {
	Source      geo.Point
	Destination geo.Point
	CapacityMW  float64
	YieldMWh    float64
	DistanceKM  float64
	AnnualCost  float64
}

func transmissionPrompt(query string, d transmissionData) string {
	var b strings.Builder
	b.WriteString("Based on the following transmission cost analysis, provide a detailed assessment:\n\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Transmission Analysis:\n")
	fmt.Fprintf(&b, "- Source: %.4f, %.4f\n", d.Source.Lat, d.Source.Lon)
	fmt.Fprintf(&b, "- Destination: %.4f, %.4f\n", d.Destination.Lat, d.Destination.Lon)
	fmt.Fprintf(&b, "- Project Capacity: %.1f MW\n", d.CapacityMW)
	fmt.Fprintf(&b, "- Annual Energy: %.0f MWh/year\n", d.YieldMWh)
	fmt.Fprintf(&b, "- Line Distance: %.1f km\n", d.DistanceKM)
	fmt.Fprintf(&b, "- Annual Transmission Cost: $%.0f\n", d.AnnualCost)
	b.WriteString("\nPlease analyze the transmission costs and delivery feasibility.\n")
	return b.String()
}

func knowledgePrompt(query, ragContext string) string {
	var b strings.Builder
	b.WriteString("Based on the following context from the California ISO knowledge base, answer the user's question:\n\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString("Relevant Context:\n")
	b.WriteString(ragContext)
	b.WriteString("\n\nPlease provide a comprehensive answer citing the relevant information.\n")
	return b.String()
}

func generalPrompt(query, ragContext string) string {
	if strings.TrimSpace(ragContext) != "" {
		return knowledgePrompt(query, ragContext)
	}
	return fmt.Sprintf("Please answer the following query: %s", query)
}
