package analytics

import (
	"testing"
	"time"

	"netobebidas/backend/internal/domain"
)

func saleAt(t time.Time, customer string, total float64, items ...domain.SaleItem) domain.Sale {
	return domain.Sale{
		ID:           "sale-" + t.Format("20060102150405"),
		CustomerID:   "cust-" + customer,
		CustomerName: customer,
		TotalValue:   total,
		CreatedAt:    t,
		Items:        items,
	}
}

func TestSummarizeReconcilesCash(t *testing.T) {
	now := time.Now().UTC()
	sales := []domain.Sale{
		saleAt(now, "Maria", 100),
		saleAt(now.Add(-time.Hour), "João", 50.50),
	}
	customers := []domain.Customer{
		{ID: "c1", Name: "Maria", Debt: 30},
		{ID: "c2", Name: "João", Debt: 0.50},
	}

	summary := Summarize(sales, customers)
	if summary.TotalSold != 150.50 {
		t.Fatalf("expected total sold 150.50, got %.2f", summary.TotalSold)
	}
	if summary.TotalDebt != 30.50 {
		t.Fatalf("expected total debt 30.50, got %.2f", summary.TotalDebt)
	}
	if summary.TotalCash != 120.00 {
		t.Fatalf("expected total cash 120.00, got %.2f", summary.TotalCash)
	}
	if summary.TotalCash != summary.TotalSold-summary.TotalDebt {
		t.Fatalf("cash must equal sold minus debt")
	}
}

func TestSummarizeEmptyCollections(t *testing.T) {
	summary := Summarize(nil, nil)
	if summary.TotalSold != 0 || summary.TotalDebt != 0 || summary.TotalCash != 0 {
		t.Fatalf("expected all-zero summary, got %+v", summary)
	}
}

func TestTopCustomersRankingIsStable(t *testing.T) {
	now := time.Now().UTC()
	sales := []domain.Sale{
		saleAt(now.Add(-5*time.Hour), "Ana", 40),
		saleAt(now.Add(-4*time.Hour), "Bruno", 40),
		saleAt(now.Add(-3*time.Hour), "Carla", 90),
		saleAt(now.Add(-2*time.Hour), "Ana", 10),
		saleAt(now.Add(-1*time.Hour), "", 999),
	}

	ranked := TopCustomers(sales, 5)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked customers, got %d", len(ranked))
	}
	if ranked[0].CustomerName != "Carla" || ranked[0].TotalValue != 90 {
		t.Fatalf("expected Carla first with 90, got %s %.2f", ranked[0].CustomerName, ranked[0].TotalValue)
	}
	if ranked[1].CustomerName != "Ana" || ranked[1].TotalValue != 50 {
		t.Fatalf("expected Ana second with 50, got %s %.2f", ranked[1].CustomerName, ranked[1].TotalValue)
	}
	if ranked[2].CustomerName != "Bruno" {
		t.Fatalf("expected Bruno third, got %s", ranked[2].CustomerName)
	}

	// Same input must yield the same order again.
	again := TopCustomers(sales, 5)
	for i := range ranked {
		if ranked[i] != again[i] {
			t.Fatalf("ranking not idempotent at position %d: %+v vs %+v", i, ranked[i], again[i])
		}
	}
}

func TestTopCustomersTiesKeepFirstAppearance(t *testing.T) {
	now := time.Now().UTC()
	sales := []domain.Sale{
		saleAt(now.Add(-3*time.Hour), "Bruno", 40),
		saleAt(now.Add(-2*time.Hour), "Ana", 40),
	}

	ranked := TopCustomers(sales, 5)
	if ranked[0].CustomerName != "Bruno" || ranked[1].CustomerName != "Ana" {
		t.Fatalf("expected tie broken by first appearance, got %s then %s", ranked[0].CustomerName, ranked[1].CustomerName)
	}
}

func TestTopCustomersTruncatesToLimit(t *testing.T) {
	now := time.Now().UTC()
	sales := make([]domain.Sale, 0, 8)
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		sales = append(sales, saleAt(now.Add(-time.Duration(i)*time.Hour), name, float64(100-i)))
	}

	ranked := TopCustomers(sales, 5)
	if len(ranked) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(ranked))
	}
}

func TestRevenueSeriesAscendingAndCutoff(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		saleAt(now.AddDate(0, 0, -1), "Maria", 30),
		saleAt(now.AddDate(0, 0, -3), "Maria", 20),
		saleAt(now.AddDate(0, 0, -3).Add(time.Hour), "João", 5),
		// Exactly at the cutoff: excluded, the window is strictly after.
		saleAt(now.AddDate(0, 0, -7), "Maria", 999),
		saleAt(now.AddDate(0, 0, -10), "Maria", 999),
	}

	points := RevenueSeries(sales, 7, "", now)
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(points))
	}
	if points[0].Date != "2026-08-17" || points[0].Total != 25 {
		t.Fatalf("expected 2026-08-17 total 25, got %s %.2f", points[0].Date, points[0].Total)
	}
	if points[1].Date != "2026-08-19" || points[1].Total != 30 {
		t.Fatalf("expected 2026-08-19 total 30, got %s %.2f", points[1].Date, points[1].Total)
	}
	if points[0].Label != "17/08" {
		t.Fatalf("expected label 17/08, got %s", points[0].Label)
	}
}

func TestRevenueSeriesNormalizesWindow(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		saleAt(now.AddDate(0, 0, -20), "Maria", 42),
	}

	// 12 is not a supported window and falls back to 30 days.
	points := RevenueSeries(sales, 12, "", now)
	if len(points) != 1 || points[0].Total != 42 {
		t.Fatalf("expected fallback 30-day window to include the sale, got %+v", points)
	}
}

func TestRevenueSeriesProductFilterUsesLineExtensions(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		saleAt(now.AddDate(0, 0, -1), "Maria", 23.50,
			domain.SaleItem{ProductID: "prod-skol", Quantity: 3, UnitSellPrice: 4.50},
			domain.SaleItem{ProductID: "prod-coca", Quantity: 1, UnitSellPrice: 10.00},
		),
		saleAt(now.AddDate(0, 0, -2), "João", 10.00,
			domain.SaleItem{ProductID: "prod-coca", Quantity: 1, UnitSellPrice: 10.00},
		),
	}

	points := RevenueSeries(sales, 7, "prod-skol", now)
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket for filtered product, got %d", len(points))
	}
	if points[0].Total != 13.50 {
		t.Fatalf("expected 13.50 from matching lines only, got %.2f", points[0].Total)
	}
}
