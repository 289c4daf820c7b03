// File path: internal/api/search_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/retriever"
)

type searchHit struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Chunk   int     `json:"chunk"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	query := r.URL.Query().Get("q")
	if query == "" {
		logger.Warn("api: search missing query parameter")
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing q parameter"))
		return
	}
	limit := retriever.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	logger.Info("api: search request", "query", query, "limit", limit)
	results := s.retriever.Search(r.Context(), query, limit)
	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{
			ID:      res.Doc.ID,
			Source:  res.Doc.Source,
			Chunk:   res.Doc.Chunk,
			Score:   res.Score,
			Content: res.Doc.Content,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": hits})
}
