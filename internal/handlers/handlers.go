package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sfutchko/seanpicks-sub001/internal/analyzer"
	"github.com/sfutchko/seanpicks-sub001/internal/cache"
	"github.com/sfutchko/seanpicks-sub001/internal/dedup"
	"github.com/sfutchko/seanpicks-sub001/internal/metrics"
	"github.com/sfutchko/seanpicks-sub001/internal/publisher"
	"github.com/sfutchko/seanpicks-sub001/internal/rollup"
	"github.com/sfutchko/seanpicks-sub001/internal/store"
	"github.com/sfutchko/seanpicks-sub001/internal/tracker"
	"github.com/sfutchko/seanpicks-sub001/pkg/contracts"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// Handler contains dependencies for HTTP handlers. Cache, publisher,
// and dedup are optional; a nil dependency skips that step.
type Handler struct {
	store     store.Store
	analyzer  *analyzer.Analyzer
	tracker   *tracker.Tracker
	rollups   *rollup.Manager
	lines     contracts.LineHistory
	cache     *cache.RedisWriter
	publisher *publisher.StreamPublisher
	dedup     *dedup.Deduplicator
	metrics   *metrics.EngineMetrics
}

// NewHandler creates a new handler with dependencies
func NewHandler(
	s store.Store,
	a *analyzer.Analyzer,
	t *tracker.Tracker,
	r *rollup.Manager,
	lines contracts.LineHistory,
	c *cache.RedisWriter,
	p *publisher.StreamPublisher,
	d *dedup.Deduplicator,
	m *metrics.EngineMetrics,
) *Handler {
	return &Handler{
		store:     s,
		analyzer:  a,
		tracker:   t,
		rollups:   r,
		lines:     lines,
		cache:     c,
		publisher: p,
		dedup:     d,
		metrics:   m,
	}
}

// HealthCheck returns the health status of the engine
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "pick-engine",
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
