package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sfutchko/seanpicks-sub001/internal/analyzer"
	"github.com/sfutchko/seanpicks-sub001/internal/consensus"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// AnalyzeGame scores a game from its descriptor and optional signals,
// caches the result, and tracks qualifying best bets.
func (h *Handler) AnalyzeGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req models.AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	signals := req.Signals
	if signals == nil {
		signals = &models.Signals{}
	}

	// Record the observed lines and resolve the opening spread for
	// movement detection before scoring.
	if h.lines != nil {
		quotes := consensus.QuotesFromGame(&req.Game)
		if err := h.lines.RecordLines(ctx, &req.Game, quotes); err != nil {
			fmt.Printf("[Engine] ❌ Failed to record lines for %s: %v\n", req.Game.ID, err)
		}
		if signals.OpeningSpread == nil {
			if opening, ok, err := h.lines.OpeningSpread(ctx, req.Game.ID); err == nil && ok {
				signals.OpeningSpread = &opening
			}
		}
	}

	result, err := h.analyzer.Analyze(&req.Game, signals)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AnalysisErrors.Inc()
		}
		if errors.Is(err, analyzer.ErrMalformedGame) {
			respondError(w, http.StatusBadRequest, "malformed game descriptor", err)
			return
		}
		respondError(w, http.StatusUnprocessableEntity, "game cannot be analyzed", err)
		return
	}

	if h.metrics != nil {
		h.metrics.AnalysesTotal.WithLabelValues(result.SportKey, result.Tier).Inc()
		h.metrics.ConfidenceValue.WithLabelValues(result.SportKey).Observe(result.FinalConfidence)
	}

	if h.cache != nil {
		if err := h.cache.WriteAnalysis(ctx, result); err != nil {
			fmt.Printf("[Engine] ❌ Failed to cache analysis for %s: %v\n", result.GameID, err)
		}
	}

	if result.BestBet != nil {
		h.trackAndPublish(ctx, &req.Game, result)
	}

	respondJSON(w, http.StatusOK, result)
}

// trackAndPublish persists a surfaced best bet and publishes it to the
// picks streams unless an identical publication fired recently.
func (h *Handler) trackAndPublish(ctx context.Context, game *models.Game, result *models.AnalysisResult) {
	bet, inserted, err := h.tracker.Track(ctx, game, result)
	if err != nil {
		fmt.Printf("[Engine] ❌ Failed to track bet for %s: %v\n", result.GameID, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BestBetsTotal.WithLabelValues(result.SportKey, result.Tier).Inc()
		if inserted {
			h.metrics.BetsTracked.Inc()
		}
	}

	if h.publisher == nil {
		return
	}

	if h.dedup != nil {
		ok, err := h.dedup.ShouldPublish(ctx, bet)
		if err != nil {
			fmt.Printf("[Engine] ❌ Dedup check failed for %s: %v\n", bet.Pick, err)
			return
		}
		if !ok {
			if h.metrics != nil {
				h.metrics.BetsDeduped.Inc()
			}
			return
		}
	}

	if err := h.publisher.Publish(ctx, bet); err != nil {
		fmt.Printf("[Engine] ❌ Failed to publish bet %s: %v\n", bet.Pick, err)
		return
	}
	if h.metrics != nil {
		h.metrics.BetsPublished.Inc()
	}
}

// GetAnalysis serves the cached analysis for a game
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := urlParam(r, "gameID")
	if gameID == "" {
		respondError(w, http.StatusBadRequest, "game_id is required", nil)
		return
	}

	if h.cache == nil {
		respondError(w, http.StatusNotFound, "analysis cache not configured", nil)
		return
	}

	result, err := h.cache.ReadAnalysis(ctx, gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "no cached analysis for game", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
