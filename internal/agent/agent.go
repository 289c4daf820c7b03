// File path: internal/agent/agent.go
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/sunward/solsite/internal/catalog"
	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/geo"
	"github.com/sunward/solsite/internal/llm"
	"github.com/sunward/solsite/internal/retriever"
	"github.com/sunward/solsite/internal/solar"
	"github.com/sunward/solsite/internal/tools"
)

// Fallback coordinates for transmission queries that name fewer than two
// points: a Central Valley site delivering toward San Jose.
var (
	defaultSource      = geo.Point{Lat: 37.2, Lon: -121.9}
	defaultDestination = geo.Point{Lat: 37.3, Lon: -122.0}
)

// Result is a fully answered query.
type Result struct {
	Query       string                 `json:"query"`
	Route       string                 `json:"route"`
	ToolResults map[string]interface{} `json:"tool_results"`
	Error       string                 `json:"error,omitempty"`
	Response    string                 `json:"response"`
}

// Agent routes feasibility queries to the calculators and the knowledge base,
// then asks the LLM to write the assessment.
type Agent struct {
	provider llm.Provider
	toolset  *tools.Toolset
	retr     *retriever.Retriever
	solar    *solar.Client
	store    *catalog.Store
}

type Option func(*Agent)

// WithSolarClient enables live solar-resource lookups during feasibility
// analysis.
func WithSolarClient(client *solar.Client) Option {
	return func(a *Agent) { a.solar = client }
}

// WithCatalog records every answered query in the analysis catalog.
func WithCatalog(store *catalog.Store) Option {
	return func(a *Agent) { a.store = store }
}

func New(provider llm.Provider, toolset *tools.Toolset, retr *retriever.Retriever, opts ...Option) *Agent {
	a := &Agent{provider: provider, toolset: toolset, retr: retr}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Analyze runs the full pipeline: route, gather tool results, generate the
// response. Gathering failures are reported in the result rather than
// aborting, matching what an interactive session expects.
func (a *Agent) Analyze(ctx context.Context, query string) (Result, error) {
	route := DetectRoute(query)
	telemetry.RecordAnalysis(string(route))
	start := time.Now()
	res := Result{Query: query, Route: string(route)}

	g := graph.NewMessageGraph()
	g.AddNode("gather", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		prompt, toolResults, err := a.gather(ctx, route, query)
		if err != nil {
			return nil, err
		}
		res.ToolResults = toolResults
		return append(state, llms.TextParts(llms.ChatMessageTypeHuman, prompt)), nil
	})
	g.AddNode("respond", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		answer, err := a.provider.Chat(ctx, []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: lastText(state)},
		})
		if err != nil {
			return nil, err
		}
		return append(state, llms.TextParts(llms.ChatMessageTypeAI, answer)), nil
	})
	g.AddEdge("gather", "respond")
	g.AddEdge("respond", graph.END)
	g.SetEntryPoint("gather")

	runnable, err := g.Compile()
	if err != nil {
		return Result{}, fmt.Errorf("compile analysis graph: %w", err)
	}
	state, err := runnable.Invoke(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	})
	if err != nil {
		res.Error = err.Error()
		res.Response = "Error: " + err.Error()
	} else {
		res.Response = lastText(state)
	}
	a.record(ctx, res, time.Since(start))
	return res, nil
}

func (a *Agent) gather(ctx context.Context, route Route, query string) (string, map[string]interface{}, error) {
	switch route {
	case RouteFeasibility:
		return a.gatherFeasibility(ctx, query)
	case RouteTransmission:
		return a.gatherTransmission(query)
	case RouteKnowledge:
		return a.gatherKnowledge(ctx, query, false)
	default:
		return a.gatherKnowledge(ctx, query, true)
	}
}

func (a *Agent) gatherFeasibility(ctx context.Context, query string) (string, map[string]interface{}, error) {
	site, ok := geo.ExtractCoordinates(query)
	if !ok {
		return "", nil, errors.New("could not extract coordinates from query")
	}
	capacity := geo.ExtractCapacity(query)

	weather := a.toolset.WeatherCSV(site)
	yield := a.toolset.AnnualYieldMWh(site, capacity)
	cost := a.toolset.CostModel(capacity)
	grid := a.toolset.GridConnection(site)
	resource := solar.Estimate(site)
	if a.solar != nil {
		resource = a.solar.Resource(ctx, site)
	}
	production := a.toolset.Production(site, capacity, resource.AnnualGHI, 0)

	data := feasibilityData{
		Site:       site,
		CapacityMW: capacity,
		WeatherCSV: weather,
		YieldMWh:   yield,
		Cost:       cost,
		Grid:       grid,
		Resource:   resource,
		Production: production,
	}
	results := map[string]interface{}{
		"coordinates":            fmt.Sprintf("%.4f, %.4f", site.Lat, site.Lon),
		"capacity_mw":            capacity,
		"weather_data":           weather,
		"annual_yield_mwh":       yield,
		"capex_millions":         cost.CapexMillions,
		"opex_millions_per_year": cost.OpexMillionsPerYear,
		"grid_connection":        grid.String(),
		"solar_resource":         resource,
		"production_model":       production,
	}
	return feasibilityPrompt(query, data), results, nil
}

func (a *Agent) gatherTransmission(query string) (string, map[string]interface{}, error) {
	pairs := geo.ExtractCoordinatePairs(query)
	src, dst := defaultSource, defaultDestination
	switch {
	case len(pairs) >= 2:
		src, dst = pairs[0], pairs[1]
	case len(pairs) == 1:
		dst = pairs[0]
	}
	capacity := geo.ExtractCapacity(query)
	yield := a.toolset.AnnualYieldMWh(src, capacity)
	distanceKM, annualCost := a.toolset.TransmissionCost(src, dst, yield)

	data := transmissionData{
		Source:      src,
		Destination: dst,
		CapacityMW:  capacity,
		YieldMWh:    yield,
		DistanceKM:  distanceKM,
		AnnualCost:  annualCost,
	}
	results := map[string]interface{}{
		"source_coords":              fmt.Sprintf("%.4f, %.4f", src.Lat, src.Lon),
		"destination_coords":         fmt.Sprintf("%.4f, %.4f", dst.Lat, dst.Lon),
		"capacity_mw":                capacity,
		"annual_yield_mwh":           yield,
		"distance_km":                distanceKM,
		"transmission_cost_per_year": annualCost,
	}
	return transmissionPrompt(query, data), results, nil
}

func (a *Agent) gatherKnowledge(ctx context.Context, query string, general bool) (string, map[string]interface{}, error) {
	ragContext := ""
	if a.retr != nil {
		ragContext = a.retr.Context(ctx, query)
	}
	results := map[string]interface{}{
		"rag_context": ragContext,
		"query_type":  "knowledge_base",
	}
	if general {
		return generalPrompt(query, ragContext), results, nil
	}
	return knowledgePrompt(query, ragContext), results, nil
}

func (a *Agent) record(ctx context.Context, res Result, elapsed time.Duration) {
	if a.store == nil {
		return
	}
	if _, err := a.store.RecordAnalysis(ctx, res.Query, res.Route, res.Response, a.provider.Name(), elapsed); err != nil {
		common.Logger().Warn("agent: failed to record analysis", "error", err)
	}
}

func lastText(state []llms.MessageContent) string {
	if len(state) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range state[len(state)-1].Parts {
		if text, ok := part.(llms.TextContent); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
