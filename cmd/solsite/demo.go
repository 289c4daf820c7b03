// File path: cmd/solsite/demo.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sunward/solsite/internal/agent"
	"github.com/sunward/solsite/internal/common"
)

type demoQuery struct {
	query       string
	description string
}

var demoQueries = []demoQuery{
	{
		query:       "Is it feasible to build a 20 MW solar farm at 37.2 N, -121.9 W?",
		description: "Coordinate-based Feasibility Analysis",
	},
	{
		query:       "Analyze the feasibility of a 50 MW solar farm at coordinates 36.1699, -115.1398",
		description: "Bare Coordinate Analysis (Las Vegas location)",
	},
	{
		query:       "What would it cost to deliver 20 MW from 37.2, -121.9 to San Jose at 37.3, -122.0?",
		description: "Transmission Cost Analysis",
	},
	{
		query:       "Tell me about the California ISO interconnection queue",
		description: "Knowledge Base Lookup",
	},
	{
		query:       "What are typical LCOE values for solar projects?",
		description: "General Query with Retrieved Context",
	},
}

func runDemo(ctx context.Context, runner *agent.Agent) {
	logger := common.Logger()
	fmt.Println("\n=== DEMO MODE ===")
	for i, demo := range demoQueries {
		fmt.Printf("\n%s\n", strings.Repeat("=", 70))
		fmt.Printf("Demo Query %d: %s\n", i+1, demo.description)
		fmt.Println(strings.Repeat("=", 70))
		fmt.Printf("Question: %s\n", demo.query)
		logger.Info("solsite: processing demo query", "query", demo.query)

		res, err := runner.Analyze(ctx, demo.query)
		if err != nil {
			logger.Error("solsite: demo query failed", "query", demo.query, "error", err)
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("Route: %s\n", res.Route)
		fmt.Printf("Agent Response:\n%s\n", res.Response)
	}
	fmt.Println(strings.Repeat("=", 70))
}
