// File path: internal/retriever/retriever.go
package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/common/telemetry"
	"github.com/sunward/solsite/internal/kb"
	"github.com/sunward/solsite/internal/vector"
)

// Embedder describes the minimal contract needed to generate vectors for
// queries against a vector store.
type Embedder interface {
	Embed(ctx context.Context, input []string) ([][]float32, error)
}

// DefaultLimit is how many chunks a context lookup returns.
const DefaultLimit = 3

// NoContextMessage is returned when nothing in the knowledge base matches.
const NoContextMessage = "No relevant information found in knowledge base."

type SearchResult struct {
	Doc   kb.Doc  `json:"doc"`
	Score float64 `json:"score"`
}

// Retriever answers knowledge-base lookups. It prefers the vector store and
// falls back to an in-process TF-IDF index when embeddings or the store are
// unavailable.
type Retriever struct {
	embedder Embedder
	store    vector.Store
	cache    *queryCache

	mu      sync.RWMutex
	docs    []kb.Doc
	byID    map[string]kb.Doc
	vectors map[string]map[string]float64
	norms   map[string]float64
	df      map[string]int
	total   int
}

type Option func(*Retriever)

// WithCacheSize controls the number of cached query results.
func WithCacheSize(size int) Option {
	return func(r *Retriever) {
		r.cache = newQueryCache(size)
	}
}

func New(docs []kb.Doc, embedder Embedder, store vector.Store, opts ...Option) *Retriever {
	r := &Retriever{
		embedder: embedder,
		store:    store,
		cache:    newQueryCache(128),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.cache == nil {
		r.cache = newQueryCache(128)
	}
	r.Refresh(docs)
	return r
}

// Refresh rebuilds the lexical index over a new chunk set.
func (r *Retriever) Refresh(docs []kb.Doc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = docs
	r.byID = make(map[string]kb.Doc, len(docs))
	r.vectors = make(map[string]map[string]float64)
	r.norms = make(map[string]float64)
	r.df = make(map[string]int)
	r.total = len(docs)
	if r.cache != nil {
		r.cache.Purge()
	}
	for _, doc := range docs {
		r.byID[doc.ID] = doc
		terms := tokenize(doc.Content)
		tf := make(map[string]float64)
		for _, term := range terms {
			tf[term]++
		}
		for term := range tf {
			r.df[term]++
		}
		r.vectors[doc.ID] = tf
	}
	for id, tf := range r.vectors {
		var norm float64
		for term, freq := range tf {
			weight := r.tfidfWeight(term, freq)
			tf[term] = weight
			norm += weight * weight
		}
		r.norms[id] = math.Sqrt(norm)
	}
}

// Index pushes the chunk embeddings into the vector store so later searches
// can run there. Missing embeddings or an unreachable store are not fatal,
// lookups then stay on the lexical index.
func (r *Retriever) Index(ctx context.Context) error {
	if r.store == nil || !r.store.Available() || r.embedder == nil {
		common.Logger().Info("retriever: vector store unavailable, keeping lexical index only")
		return nil
	}
	r.mu.RLock()
	docs := r.docs
	r.mu.RUnlock()
	if len(docs) == 0 {
		return nil
	}
	input := make([]string, len(docs))
	for i, doc := range docs {
		input[i] = doc.Content
	}
	vectors, err := r.embedder.Embed(ctx, input)
	if err != nil {
		common.Logger().Warn("retriever: embedding failed, keeping lexical index only", "error", err)
		return nil
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(docs))
	}
	if err := r.store.UpsertDocs(ctx, docs, vectors); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}
	common.Logger().Info("retriever: indexed chunks", "count", len(docs), "collection", r.store.Collection())
	return nil
}

// Search returns the best-matching chunks for a query.
func (r *Retriever) Search(ctx context.Context, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if cached, ok := r.cache.Get(cacheKey(query, limit)); ok {
		if results, ok := cached.([]SearchResult); ok {
			return results
		}
	}
	start := time.Now()
	results, vectorUsed := r.vectorSearch(ctx, query, limit)
	if !vectorUsed {
		results = r.lexicalSearch(query, limit)
	}
	telemetry.RecordRetrieverSearch(vectorUsed, time.Since(start))
	if len(results) > 0 {
		r.cache.Set(cacheKey(query, limit), results)
	}
	return results
}

// Context formats search hits the way prompts expect: each chunk prefixed
// with its source label.
func (r *Retriever) Context(ctx context.Context, query string) string {
	results := r.Search(ctx, query, DefaultLimit)
	if len(results) == 0 {
		return NoContextMessage
	}
	parts := make([]string, 0, len(results))
	for _, res := range results {
		source := res.Doc.Source
		if strings.TrimSpace(source) == "" {
			source = "Unknown source"
		}
		parts = append(parts, fmt.Sprintf("[Source: %s]\n%s", source, strings.TrimSpace(res.Doc.Content)))
	}
	return strings.Join(parts, "\n\n")
}

func (r *Retriever) vectorSearch(ctx context.Context, query string, limit int) ([]SearchResult, bool) {
	if r.store == nil || !r.store.Available() || r.embedder == nil {
		return nil, false
	}
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, false
	}
	points, err := r.store.Search(ctx, vectors[0], limit)
	if err != nil {
		common.Logger().Warn("retriever: vector search failed, falling back", "error", err)
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		doc, ok := r.byID[point.ID]
		if !ok {
			// Chunk only known to the store; reconstruct from the payload.
			doc = docFromPayload(point)
			if doc.Content == "" {
				continue
			}
		}
		results = append(results, SearchResult{Doc: doc, Score: float64(point.Score)})
	}
	return results, true
}

func docFromPayload(point vector.SearchResult) kb.Doc {
	doc := kb.Doc{ID: point.ID}
	if content, ok := point.Payload["content"].(string); ok {
		doc.Content = content
	}
	if source, ok := point.Payload["source"].(string); ok {
		doc.Source = source
	}
	if path, ok := point.Payload["path"].(string); ok {
		doc.Path = path
	}
	return doc
}

func (r *Retriever) lexicalSearch(query string, limit int) []SearchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}
	qtf := make(map[string]float64)
	for _, term := range terms {
		qtf[term]++
	}
	var qnorm float64
	for term, freq := range qtf {
		weight := r.tfidfWeight(term, freq)
		qtf[term] = weight
		qnorm += weight * weight
	}
	qnorm = math.Sqrt(qnorm)
	if qnorm == 0 {
		return nil
	}
	scores := make([]SearchResult, 0, len(r.docs))
	for _, doc := range r.docs {
		dv := r.vectors[doc.ID]
		if len(dv) == 0 {
			continue
		}
		var dot float64
		for term, weight := range qtf {
			dot += weight * dv[term]
		}
		denom := qnorm * r.norms[doc.ID]
		if denom == 0 {
			continue
		}
		score := dot / denom
		if score <= 0 {
			continue
		}
		scores = append(scores, SearchResult{Doc: doc, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

func (r *Retriever) tfidfWeight(term string, freq float64) float64 {
	df := float64(r.df[term])
	if df == 0 {
		return 0
	}
	idf := math.Log((float64(r.total)+1)/(df+1)) + 1
	return freq * idf
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("%d:%s", limit, strings.ToLower(strings.TrimSpace(query)))
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	replacer := strings.NewReplacer(
		".", " ",
		",", " ",
		"\n", " ",
		"\t", " ",
		":", " ",
		";", " ",
		"-", " ",
		"_", " ",
		"(", " ",
		")", " ",
		"'", " ",
		"\"", " ",
	)
	cleaned := replacer.Replace(text)
	return strings.Fields(cleaned)
}
