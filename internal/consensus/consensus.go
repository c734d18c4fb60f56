package consensus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// ErrNoMarketData is returned when a consensus is requested with zero
// quotes. Callers decide whether to proceed without line factors.
var ErrNoMarketData = errors.New("no market data: zero bookmaker quotes")

// DispersionInsightThreshold is the spread range across books at which
// market disagreement becomes worth surfacing as an insight.
const DispersionInsightThreshold = 1.0

// QuotesFromGame flattens a game's bookmaker markets into per-book
// quotes. Books quoting only some markets still produce a quote with
// the corresponding Has* flags unset.
func QuotesFromGame(game *models.Game) []models.BookmakerQuote {
	quotes := make([]models.BookmakerQuote, 0, len(game.Bookmakers))

	for _, book := range game.Bookmakers {
		quote := models.BookmakerQuote{BookmakerID: book.Key}

		for _, market := range book.Markets {
			switch market.Key {
			case "spreads":
				for _, outcome := range market.Outcomes {
					if outcome.Name == game.HomeTeam {
						quote.SpreadHome = outcome.Point
						quote.SpreadAway = -outcome.Point
						quote.HasSpread = true
					}
				}
			case "totals":
				if len(market.Outcomes) > 0 {
					quote.Total = market.Outcomes[0].Point
					quote.HasTotal = true
				}
			case "h2h":
				for _, outcome := range market.Outcomes {
					if outcome.Price == 0 {
						continue
					}
					if outcome.Name == game.HomeTeam {
						quote.MoneylineHome = outcome.Price
						quote.HasMoneyline = true
					} else if outcome.Name == game.AwayTeam {
						quote.MoneylineAway = outcome.Price
					}
				}
			}
		}

		if quote.HasSpread || quote.HasTotal || quote.HasMoneyline {
			quotes = append(quotes, quote)
		}
	}

	return quotes
}

// Build reduces the quotes for one game into a ConsensusLine. Median is
// used over mean so a single outlier book cannot drag the consensus.
func Build(quotes []models.BookmakerQuote) (*models.ConsensusLine, error) {
	if len(quotes) == 0 {
		return nil, ErrNoMarketData
	}

	spreads := make([]float64, 0, len(quotes))
	totals := make([]float64, 0, len(quotes))
	homeMLs := make([]int, 0, len(quotes))
	awayMLs := make([]int, 0, len(quotes))

	for _, q := range quotes {
		if q.HasSpread {
			spreads = append(spreads, q.SpreadHome)
		}
		if q.HasTotal {
			totals = append(totals, q.Total)
		}
		if q.HasMoneyline {
			homeMLs = append(homeMLs, q.MoneylineHome)
			awayMLs = append(awayMLs, q.MoneylineAway)
		}
	}

	line := &models.ConsensusLine{
		ConsensusSpread: median(spreads),
		ConsensusTotal:  median(totals),
		ConsensusHomeML: medianInt(homeMLs),
		ConsensusAwayML: medianInt(awayMLs),
		BookCount:       len(spreads),
	}

	if len(spreads) > 0 {
		minSpread, maxSpread := spreads[0], spreads[0]
		for _, s := range spreads[1:] {
			if s < minSpread {
				minSpread = s
			}
			if s > maxSpread {
				maxSpread = s
			}
		}
		line.Dispersion = maxSpread - minSpread
	}

	return line, nil
}

// BestForSide picks the quote giving the bettor the most points for the
// side being bet. Home side wants the largest home spread; away side
// wants the smallest home spread (largest away spread).
func BestForSide(quotes []models.BookmakerQuote, homeSide bool) (spread float64, book string, ok bool) {
	for _, q := range quotes {
		if !q.HasSpread {
			continue
		}

		side := q.SpreadHome
		if !homeSide {
			side = q.SpreadAway
		}

		if !ok || side > spread {
			spread = side
			book = q.BookmakerID
			ok = true
		}
	}

	return spread, book, ok
}

// DispersionInsight renders the market-disagreement insight when the
// spread range across books is material, otherwise "".
func DispersionInsight(line *models.ConsensusLine, quotes []models.BookmakerQuote) string {
	if line.Dispersion < DispersionInsightThreshold {
		return ""
	}

	minSpread, maxSpread, n := 0.0, 0.0, 0
	for _, q := range quotes {
		if !q.HasSpread {
			continue
		}
		if n == 0 || q.SpreadHome < minSpread {
			minSpread = q.SpreadHome
		}
		if n == 0 || q.SpreadHome > maxSpread {
			maxSpread = q.SpreadHome
		}
		n++
	}

	return fmt.Sprintf("Lines range from %+.1f to %+.1f across %d books", minSpread, maxSpread, n)
}

// median returns the middle value, averaging the two middles for even
// counts. Zero-length input yields 0.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
