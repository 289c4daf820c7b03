// File path: internal/common/telemetry/telemetry.go
// Package telemetry publishes lightweight counters describing tool, retriever
// and LLM activity through expvar.
package telemetry

import (
	"expvar"
	"sync"
	"time"
)

var (
	initOnce sync.Once

	toolCallTotal *expvar.Map

	retrieverSearchTotal     *expvar.Int
	retrieverVectorHits      *expvar.Int
	retrieverFallbackTotal   *expvar.Int
	retrieverSearchLatencyMS *expvar.Int

	llmChatTotal    *expvar.Int
	llmChatFailures *expvar.Int
	llmEmbedTotal   *expvar.Int

	analysisTotal *expvar.Map
)

func ensureInit() {
	initOnce.Do(func() {
		toolCallTotal = expvar.NewMap("solsite_tool_calls_total")

		retrieverSearchTotal = expvar.NewInt("solsite_retriever_search_total")
		retrieverVectorHits = expvar.NewInt("solsite_retriever_vector_hits")
		retrieverFallbackTotal = expvar.NewInt("solsite_retriever_fallback_total")
		retrieverSearchLatencyMS = expvar.NewInt("solsite_retriever_search_latency_ms")

		llmChatTotal = expvar.NewInt("solsite_llm_chat_total")
		llmChatFailures = expvar.NewInt("solsite_llm_chat_failures")
		llmEmbedTotal = expvar.NewInt("solsite_llm_embed_total")

		analysisTotal = expvar.NewMap("solsite_analyses_total")
	})
}

// RecordToolCall increments the invocation counter for a named calculator.
func RecordToolCall(name string) {
	ensureInit()
	toolCallTotal.Add(name, 1)
}

// RecordRetrieverSearch tracks a knowledge-base lookup. vector reports whether
// the vector store served the request or the in-process fallback did.
func RecordRetrieverSearch(vector bool, elapsed time.Duration) {
	ensureInit()
	retrieverSearchTotal.Add(1)
	if vector {
		retrieverVectorHits.Add(1)
	} else {
		retrieverFallbackTotal.Add(1)
	}
	retrieverSearchLatencyMS.Add(elapsed.Milliseconds())
}

// RecordChat tracks an LLM chat completion attempt.
func RecordChat(err error) {
	ensureInit()
	llmChatTotal.Add(1)
	if err != nil {
		llmChatFailures.Add(1)
	}
}

// RecordEmbed tracks a batch embedding request.
func RecordEmbed(items int) {
	ensureInit()
	llmEmbedTotal.Add(int64(items))
}

// RecordAnalysis increments the per-route analysis counter.
func RecordAnalysis(route string) {
	ensureInit()
	analysisTotal.Add(route, 1)
}
