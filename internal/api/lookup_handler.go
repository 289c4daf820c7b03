// File path: internal/api/lookup_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sunward/solsite/internal/common"
	"github.com/sunward/solsite/internal/geo"
)

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("geocoding not configured"))
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		logger.Warn("api: geocode missing query parameter")
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing q parameter"))
		return
	}
	logger.Info("api: geocode request", "query", query)
	places, err := s.geocoder.Search(r.Context(), query)
	if err != nil {
		logger.Error("api: geocode lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"places": places})
}

func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.web == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("web search not configured"))
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		logger.Warn("api: websearch missing query parameter")
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing q parameter"))
		return
	}
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	logger.Info("api: websearch request", "query", query, "limit", limit)
	results, err := s.web.Search(r.Context(), query, limit)
	if err != nil {
		logger.Error("api: websearch failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("weather lookups not configured"))
		return
	}
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid lat parameter"))
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid lon parameter"))
		return
	}
	site := geo.Point{Lat: lat, Lon: lon}
	if !site.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("coordinates out of range"))
		return
	}
	logger.Info("api: weather request", "lat", lat, "lon", lon)
	conditions, err := s.weather.Current(r.Context(), site)
	if err != nil {
		logger.Error("api: weather lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, conditions)
}
