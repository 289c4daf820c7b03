// File path: internal/api/history_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sunward/solsite/internal/common"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("analysis history not configured"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	analyses, err := s.history.RecentAnalyses(r.Context(), limit)
	if err != nil {
		logger.Error("api: history lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Debug("api: history served", "analyses", len(analyses))
	writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": analyses})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}
