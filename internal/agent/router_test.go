// File path: internal/agent/router_test.go
package agent

import "testing"

func TestDetectRoute(t *testing.T) {
	cases := []struct {
		query string
		want  Route
	}{
		{"Is it feasible to build a 50 MW solar farm at 36.5, -121.0?", RouteFeasibility},
		{"What would a solar project at 35, -117 produce?", RouteFeasibility},
		{"How much would it cost to deliver power to San Jose?", RouteTransmission},
		{"Can we send power from 36.5,-121 to 37.3,-122?", RouteTransmission},
		{"What is the CAISO interconnection queue?", RouteKnowledge},
		{"Tell me about grid stability in California", RouteKnowledge},
		{"Hello there", RouteGeneral},
	}
	for _, tc := range cases {
		if got := DetectRoute(tc.query); got != tc.want {
			t.Errorf("DetectRoute(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestDetectRouteFeasibilityBeatsTransmission(t *testing.T) {
	// "cost" also appears, but feasibility keywords win.
	query := "Is a solar farm feasible here, and what would it cost?"
	if got := DetectRoute(query); got != RouteFeasibility {
		t.Fatalf("route = %q, want feasibility", got)
	}
}
