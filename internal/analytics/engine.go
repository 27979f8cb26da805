package analytics

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"netobebidas/backend/internal/cache"
	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/store"
)

// Engine serves report endpoints from the repository with a short-lived
// cache in front, so a dashboard polling every few seconds does not re-scan
// the sale history each time.
type Engine struct {
	repo     store.Repository
	cache    cache.ReportCache
	cacheTTL time.Duration
}

func NewEngine(repo store.Repository, cacheStore cache.ReportCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopReportCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 20 * time.Second
	}

	return &Engine{
		repo:     repo,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

func (e *Engine) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	key := buildCacheKey("summary", "")
	if hit, err := e.fromCache(ctx, key, &summary); err == nil && hit {
		return summary, nil
	}

	sales, err := e.repo.ListSales(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	customers, err := e.repo.ListCustomers(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	summary = Summarize(sales, customers)
	e.toCache(ctx, key, summary)
	return summary, nil
}

func (e *Engine) TopCustomers(ctx context.Context, limit int) ([]domain.CustomerRevenue, error) {
	var ranked []domain.CustomerRevenue
	key := buildCacheKey("top-customers", fmt.Sprintf("limit=%d", limit))
	if hit, err := e.fromCache(ctx, key, &ranked); err == nil && hit {
		return ranked, nil
	}

	sales, err := e.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	ranked = TopCustomers(sales, limit)
	e.toCache(ctx, key, ranked)
	return ranked, nil
}

func (e *Engine) Revenue(ctx context.Context, days int, productID string) ([]domain.RevenuePoint, error) {
	var points []domain.RevenuePoint
	key := buildCacheKey("revenue", fmt.Sprintf("days=%d,product=%s", days, productID))
	if hit, err := e.fromCache(ctx, key, &points); err == nil && hit {
		return points, nil
	}

	sales, err := e.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	points = RevenueSeries(sales, days, productID, time.Now().UTC())
	e.toCache(ctx, key, points)
	return points, nil
}

func (e *Engine) fromCache(ctx context.Context, key string, out any) (bool, error) {
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) toCache(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = e.cache.Set(ctx, key, payload, e.cacheTTL)
}

func buildCacheKey(report string, params string) string {
	sum := sha1.Sum([]byte(report + "|" + params))
	return "report:" + report + ":" + hex.EncodeToString(sum[:8])
}
