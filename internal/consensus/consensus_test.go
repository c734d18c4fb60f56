package consensus_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/sfutchko/seanpicks-sub001/internal/consensus"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

func spreadQuote(book string, home float64) models.BookmakerQuote {
	return models.BookmakerQuote{
		BookmakerID: book,
		SpreadHome:  home,
		SpreadAway:  -home,
		HasSpread:   true,
	}
}

func TestBuildMedianSpread(t *testing.T) {
	tests := []struct {
		name    string
		spreads []float64
		want    float64
	}{
		{"Odd count takes middle", []float64{-3.0, -3.5, -4.0}, -3.5},
		{"Even count averages middles", []float64{-3.0, -3.5, -4.0, -4.5}, -3.75},
		{"Single book", []float64{-7.0}, -7.0},
		{"Outlier cannot drag consensus", []float64{-3.0, -3.0, -3.0, -10.0, -3.0}, -3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := make([]models.BookmakerQuote, 0, len(tt.spreads))
			for i, s := range tt.spreads {
				quotes = append(quotes, spreadQuote(string(rune('a'+i)), s))
			}

			line, err := consensus.Build(quotes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(line.ConsensusSpread-tt.want) > 0.0001 {
				t.Errorf("ConsensusSpread = %f, want %f", line.ConsensusSpread, tt.want)
			}
			if line.BookCount != len(tt.spreads) {
				t.Errorf("BookCount = %d, want %d", line.BookCount, len(tt.spreads))
			}
		})
	}
}

func TestBuildNoQuotes(t *testing.T) {
	_, err := consensus.Build(nil)
	if !errors.Is(err, consensus.ErrNoMarketData) {
		t.Errorf("Build(nil) error = %v, want ErrNoMarketData", err)
	}
}

func TestBuildDispersion(t *testing.T) {
	quotes := []models.BookmakerQuote{
		spreadQuote("a", -3.0),
		spreadQuote("b", -4.5),
		spreadQuote("c", -3.5),
	}

	line, err := consensus.Build(quotes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(line.Dispersion-1.5) > 0.0001 {
		t.Errorf("Dispersion = %f, want 1.5", line.Dispersion)
	}
}

func TestBestForSide(t *testing.T) {
	quotes := []models.BookmakerQuote{
		spreadQuote("draftkings", -3.5),
		spreadQuote("fanduel", -3.0),
		spreadQuote("betmgm", -4.0),
	}

	// Betting home: -3.0 gives the home bettor the most points
	spread, book, ok := consensus.BestForSide(quotes, true)
	if !ok {
		t.Fatal("expected a best home quote")
	}
	if spread != -3.0 || book != "fanduel" {
		t.Errorf("home best = %f at %s, want -3.0 at fanduel", spread, book)
	}

	// Betting away: +4.0 gives the away bettor the most points
	spread, book, ok = consensus.BestForSide(quotes, false)
	if !ok {
		t.Fatal("expected a best away quote")
	}
	if spread != 4.0 || book != "betmgm" {
		t.Errorf("away best = %f at %s, want 4.0 at betmgm", spread, book)
	}
}

func TestBestForSideNoSpreads(t *testing.T) {
	quotes := []models.BookmakerQuote{
		{BookmakerID: "a", Total: 44.5, HasTotal: true},
	}

	if _, _, ok := consensus.BestForSide(quotes, true); ok {
		t.Error("expected no best quote without spread markets")
	}
}

func TestDispersionInsight(t *testing.T) {
	tight := []models.BookmakerQuote{
		spreadQuote("a", -3.0),
		spreadQuote("b", -3.5),
	}
	line, _ := consensus.Build(tight)
	if insight := consensus.DispersionInsight(line, tight); insight != "" {
		t.Errorf("tight market should produce no insight, got %q", insight)
	}

	wide := []models.BookmakerQuote{
		spreadQuote("a", -3.0),
		spreadQuote("b", -4.5),
	}
	line, _ = consensus.Build(wide)
	insight := consensus.DispersionInsight(line, wide)
	if insight == "" {
		t.Fatal("wide market should produce an insight")
	}
	if !strings.Contains(insight, "2 books") {
		t.Errorf("insight %q should mention the book count", insight)
	}
}

func TestQuotesFromGame(t *testing.T) {
	game := &models.Game{
		HomeTeam: "Chiefs",
		AwayTeam: "Bills",
		Bookmakers: []models.Bookmaker{
			{
				Key: "draftkings",
				Markets: []models.Market{
					{
						Key: "spreads",
						Outcomes: []models.Outcome{
							{Name: "Chiefs", Point: -3.5, Price: -110},
							{Name: "Bills", Point: 3.5, Price: -110},
						},
					},
					{
						Key: "totals",
						Outcomes: []models.Outcome{
							{Name: "Over", Point: 47.5, Price: -110},
							{Name: "Under", Point: 47.5, Price: -110},
						},
					},
					{
						Key: "h2h",
						Outcomes: []models.Outcome{
							{Name: "Chiefs", Price: -180},
							{Name: "Bills", Price: 155},
						},
					},
				},
			},
			{
				// Book with no usable markets is dropped
				Key:     "emptybook",
				Markets: []models.Market{},
			},
		},
	}

	quotes := consensus.QuotesFromGame(game)
	if len(quotes) != 1 {
		t.Fatalf("got %d quotes, want 1", len(quotes))
	}

	q := quotes[0]
	if !q.HasSpread || q.SpreadHome != -3.5 || q.SpreadAway != 3.5 {
		t.Errorf("spread quote = %+v, want home -3.5 / away 3.5", q)
	}
	if !q.HasTotal || q.Total != 47.5 {
		t.Errorf("total = %f, want 47.5", q.Total)
	}
	if !q.HasMoneyline || q.MoneylineHome != -180 || q.MoneylineAway != 155 {
		t.Errorf("moneylines = %d/%d, want -180/155", q.MoneylineHome, q.MoneylineAway)
	}
}
