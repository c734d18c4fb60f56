package linehistory_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sfutchko/seanpicks-sub001/internal/linehistory"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

func openStore(t *testing.T) *linehistory.SQLite {
	t.Helper()

	s, err := linehistory.NewSQLite(filepath.Join(t.TempDir(), "lines.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func quotesAt(spread float64) []models.BookmakerQuote {
	return []models.BookmakerQuote{
		{BookmakerID: "draftkings", SpreadHome: spread, SpreadAway: -spread, HasSpread: true},
	}
}

func TestOpeningSpreadIsEarliestObservation(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	game := &models.Game{ID: "nfl-2026-kc-buf", SportKey: "americanfootball_nfl"}

	for _, spread := range []float64{-2.5, -3.0, -3.5} {
		if err := s.RecordLines(ctx, game, quotesAt(spread)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	opening, ok, err := s.OpeningSpread(ctx, game.ID)
	if err != nil {
		t.Fatalf("opening spread: %v", err)
	}
	if !ok {
		t.Fatal("expected an opening spread")
	}
	if opening != -2.5 {
		t.Errorf("opening = %f, want -2.5 (first observation)", opening)
	}
}

func TestOpeningSpreadUnknownGame(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.OpeningSpread(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unknown game should report no opening spread")
	}
}

func TestRecordLinesSkipsEmptyQuotes(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	game := &models.Game{ID: "no-markets", SportKey: "americanfootball_nfl"}
	if err := s.RecordLines(ctx, game, nil); err != nil {
		t.Fatalf("empty quotes should be skipped, got %v", err)
	}

	if _, ok, _ := s.OpeningSpread(ctx, game.ID); ok {
		t.Error("skipped game should have no observations")
	}
}
