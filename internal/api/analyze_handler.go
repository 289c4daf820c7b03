// File path: internal/api/analyze_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sunward/solsite/internal/common"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: analyze decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		logger.Warn("api: analyze query missing")
		writeError(w, http.StatusBadRequest, fmt.Errorf("query required"))
		return
	}
	logger.Info("api: analyze request", "query_length", len(query))
	result, err := s.agent.Analyze(r.Context(), query)
	if err != nil {
		logger.Error("api: analyze failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: analyze complete", "route", result.Route, "had_error", result.Error != "")
	writeJSON(w, http.StatusOK, result)
}
