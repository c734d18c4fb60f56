package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sfutchko/seanpicks-sub001/internal/tracker"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// SubmitFinalScore grades every tracked bet on a finished game
func (h *Handler) SubmitFinalScore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var score models.FinalScore
	if err := decodeJSON(r, &score); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if score.GameID == "" {
		respondError(w, http.StatusBadRequest, "game_id is required", nil)
		return
	}

	graded, err := h.tracker.ApplyFinalScore(ctx, &score)
	if h.metrics != nil {
		h.metrics.ScoreMessages.Inc()
		for _, bet := range graded {
			h.metrics.GradedTotal.WithLabelValues(string(bet.Result)).Inc()
		}
	}
	if err != nil {
		if errors.Is(err, tracker.ErrUngradableBet) {
			if h.metrics != nil {
				h.metrics.UngradableTotal.Inc()
			}
			// Partial success; ungradable bets stay pending
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"graded":  graded,
				"count":   len(graded),
				"warning": err.Error(),
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to grade bets", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"graded": graded,
		"count":  len(graded),
	})
}

// GetPendingBets lists ungraded tracked bets
// Query params: sport
func (h *Handler) GetPendingBets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")

	bets, err := h.tracker.PendingBets(ctx, sportKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve pending bets", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bets":  bets,
		"count": len(bets),
	})
}

// GetRecentResults lists graded bets, most recent games first
// Query params: sport, limit
func (h *Handler) GetRecentResults(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")
	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	bets, err := h.tracker.RecentResults(ctx, sportKey, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve results", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bets":  bets,
		"count": len(bets),
		"limit": limit,
	})
}

// GetPerformance summarizes graded bets over a trailing window
// Query params: sport, days
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")
	days := parseIntParam(r, "days", 30)
	if days < 1 {
		days = 1
	}

	report, err := h.rollups.Report(ctx, sportKey, time.Duration(days)*24*time.Hour)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build performance report", err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetRollup serves the stored (date, sport) rollup with running totals
// Query params: sport, date (YYYY-MM-DD, default today)
func (h *Handler) GetRollup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")
	if sportKey == "" {
		respondError(w, http.StatusBadRequest, "sport is required", nil)
		return
	}

	day := time.Now().UTC()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	rollup, err := h.store.GetRollup(ctx, day, sportKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve rollup", err)
		return
	}
	if rollup == nil {
		respondError(w, http.StatusNotFound, "no rollup for date", nil)
		return
	}

	respondJSON(w, http.StatusOK, rollup)
}

// RecomputeRollup rebuilds one day's rollup from its graded bets
// Query params: sport, date (YYYY-MM-DD)
func (h *Handler) RecomputeRollup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")
	dateStr := r.URL.Query().Get("date")
	if sportKey == "" || dateStr == "" {
		respondError(w, http.StatusBadRequest, "sport and date are required", nil)
		return
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}

	rollup, err := h.rollups.RecomputeDay(ctx, day, sportKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to recompute rollup", err)
		return
	}

	respondJSON(w, http.StatusOK, rollup)
}

// CreateSnapshot captures the current best-bets board
// Query params: sport
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")

	snapshot, err := h.tracker.CreateSnapshot(ctx, sportKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create snapshot", err)
		return
	}

	respondJSON(w, http.StatusCreated, snapshot)
}
