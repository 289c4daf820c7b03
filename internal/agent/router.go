// File path: internal/agent/router.go
package agent

import "strings"

// Route names the analysis path a query takes.
type Route string

const (
	RouteFeasibility  Route = "feasibility"
	RouteTransmission Route = "transmission"
	RouteKnowledge    Route = "knowledge"
	RouteGeneral      Route = "general"
)

var (
	feasibilityKeywords  = []string{"feasible", "feasibility", "build", "solar farm", "solar project"}
	transmissionKeywords = []string{"cost", "deliver", "transmission", "send power"}
	knowledgeKeywords    = []string{"grid", "interconnection", "caiso", "california iso"}
)

// DetectRoute picks the analysis path by keyword. Feasibility wins over
// transmission, which wins over knowledge-base lookups; anything else is a
// general query answered with whatever context the knowledge base offers.
func DetectRoute(query string) Route {
	lowered := strings.ToLower(query)
	if containsAny(lowered, feasibilityKeywords) {
		return RouteFeasibility
	}
	if containsAny(lowered, transmissionKeywords) {
		return RouteTransmission
	}
	if containsAny(lowered, knowledgeKeywords) {
		return RouteKnowledge
	}
	return RouteGeneral
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
