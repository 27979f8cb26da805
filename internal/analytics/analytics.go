// Package analytics derives dashboard state from the raw sale and customer
// collections. Every function here is pure: same input, same output, no
// clock reads and no store access.
package analytics

import (
	"math"
	"sort"
	"time"

	"netobebidas/backend/internal/domain"
)

// Summarize reconciles the ledger. TotalCash is derived, never stored:
// everything ever sold minus what customers still owe.
func Summarize(sales []domain.Sale, customers []domain.Customer) domain.DashboardSummary {
	totalSold := 0.0
	for _, sale := range sales {
		totalSold += sale.TotalValue
	}

	totalDebt := 0.0
	for _, customer := range customers {
		totalDebt += customer.Debt
	}

	return domain.DashboardSummary{
		TotalSold: round2(totalSold),
		TotalDebt: round2(totalDebt),
		TotalCash: round2(totalSold - totalDebt),
	}
}

// TopCustomers ranks customers by lifetime purchase volume, paid and unpaid
// alike. Ties keep first-appearance order in the sale history, so the
// ranking is stable across calls. Sales without a customer name are skipped.
func TopCustomers(sales []domain.Sale, limit int) []domain.CustomerRevenue {
	if limit < 1 {
		limit = 5
	}

	totals := make(map[string]float64, 16)
	order := make([]string, 0, 16)
	for _, sale := range sales {
		if sale.CustomerName == "" {
			continue
		}
		if _, seen := totals[sale.CustomerName]; !seen {
			order = append(order, sale.CustomerName)
		}
		totals[sale.CustomerName] += sale.TotalValue
	}

	ranked := make([]domain.CustomerRevenue, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, domain.CustomerRevenue{
			CustomerName: name,
			TotalValue:   round2(totals[name]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalValue > ranked[j].TotalValue })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RevenueSeries buckets recent revenue by calendar day (UTC). The window is
// one of 7, 15 or 30 days ending at now; anything else falls back to 30.
// Only sales strictly after the cutoff count. When productID is set, each
// sale contributes just the matching line extensions, and sales with no
// matching line are skipped entirely. Points come back in ascending date
// order.
func RevenueSeries(sales []domain.Sale, days int, productID string, now time.Time) []domain.RevenuePoint {
	if days != 7 && days != 15 {
		days = 30
	}
	cutoff := now.AddDate(0, 0, -days)

	buckets := make(map[string]float64, days)
	for _, sale := range sales {
		if !sale.CreatedAt.After(cutoff) {
			continue
		}

		value := sale.TotalValue
		if productID != "" {
			value = 0
			for _, line := range sale.Items {
				if line.ProductID == productID {
					value += line.UnitSellPrice * float64(line.Quantity)
				}
			}
			if value == 0 {
				continue
			}
		}

		key := sale.CreatedAt.UTC().Format("2006-01-02")
		buckets[key] += value
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]domain.RevenuePoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, domain.RevenuePoint{
			Date:  key,
			Label: key[8:10] + "/" + key[5:7],
			Total: round2(buckets[key]),
		})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
