// Package inventory values the catalog at rest.
package inventory

import (
	"math"

	"netobebidas/backend/internal/domain"
)

// Value aggregates the catalog at cost and at sell price. Negative stock,
// should a data anomaly ever produce one, counts as zero so a bad row can
// never pull the totals down.
func Value(products []domain.Product) domain.StockValuation {
	totalCost := 0.0
	potentialRevenue := 0.0
	for _, p := range products {
		stock := p.Stock
		if stock < 0 {
			stock = 0
		}
		totalCost += p.CostPrice * float64(stock)
		potentialRevenue += p.SellPrice * float64(stock)
	}

	return domain.StockValuation{
		TotalCost:        round2(totalCost),
		PotentialRevenue: round2(potentialRevenue),
		PotentialProfit:  round2(potentialRevenue - totalCost),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
