package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/store"
	"netobebidas/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo store.Repository
}

func New(repo store.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// CreateOrReplenishProduct registers a new product, or, when a product with
// the same name already exists (trimmed, case-insensitive), treats the
// request as a restock: stock is added, the sell price is refreshed, and the
// cost price is folded in as a quantity-weighted moving average.
func (s *Service) CreateOrReplenishProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.SellPrice <= 0 || req.CostPrice < 0 || req.Stock < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	existing, err := s.repo.FindProductByName(ctx, req.Name)
	if err == nil {
		replenished := *existing
		replenished.CostPrice = weightedCost(existing.CostPrice, existing.Stock, req.CostPrice, req.Stock)
		replenished.SellPrice = req.SellPrice
		replenished.Stock = existing.Stock + req.Stock

		updated, err := s.repo.UpdateProduct(ctx, replenished)
		if err != nil {
			return domain.Product{}, err
		}
		s.logAudit(ctx, "product_replenish", "product", updated.ID, fmt.Sprintf("name=%s,added=%d,stock=%d", updated.Name, req.Stock, updated.Stock))
		return *updated, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, err
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		ID:        xid.New("prod"),
		Name:      req.Name,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
		Stock:     req.Stock,
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,sell=%.2f,stock=%d", created.Name, created.SellPrice, created.Stock))
	return *created, nil
}

// CorrectProduct applies an absolute correction: every field present in the
// request overwrites the stored value. Stock is replaced, not added, so it
// must never be used for restocking.
func (s *Service) CorrectProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	existing, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	corrected := *existing
	if req.Name != nil {
		corrected.Name = strings.TrimSpace(*req.Name)
	}
	if req.CostPrice != nil {
		corrected.CostPrice = *req.CostPrice
	}
	if req.SellPrice != nil {
		corrected.SellPrice = *req.SellPrice
	}
	if req.Stock != nil {
		corrected.Stock = *req.Stock
	}
	if corrected.Name == "" || corrected.SellPrice <= 0 || corrected.CostPrice < 0 || corrected.Stock < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdateProduct(ctx, corrected)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_correct", "product", updated.ID, fmt.Sprintf("name=%s,sell=%.2f,stock=%d", updated.Name, updated.SellPrice, updated.Stock))
	return *updated, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Customer{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateCustomer(ctx, domain.Customer{
		ID:   xid.New("cust"),
		Name: req.Name,
		Debt: 0,
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "customer_create", "customer", created.ID, "name="+created.Name)
	return *created, nil
}

// PayDebt records a fiado payment. The amount must be positive; paying more
// than is owed clamps the balance at zero rather than going negative.
func (s *Service) PayDebt(ctx context.Context, customerID string, req domain.DebtPaymentRequest) (domain.Customer, error) {
	if req.Amount <= 0 {
		return domain.Customer{}, store.ErrInvalidInput
	}

	customer, err := s.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return domain.Customer{}, err
	}

	paid := *customer
	paid.Debt = round2(paid.Debt - req.Amount)
	if paid.Debt < 0 {
		paid.Debt = 0
	}

	updated, err := s.repo.UpdateCustomer(ctx, paid)
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "debt_payment", "customer", updated.ID, fmt.Sprintf("amount=%.2f,debt=%.2f", req.Amount, updated.Debt))
	return *updated, nil
}

func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx)
}

// CreateSale commits a sale from the flat slot list the terminal sends: one
// product id per unit sold. Repeats collapse into quantity lines in first-
// appearance order, unit prices are captured from the catalog at commit
// time, and the store applies stock and debt effects atomically.
func (s *Service) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	if req.CustomerID == "" {
		return domain.Sale{}, store.ErrInvalidInput
	}
	if len(req.ProductIDs) == 0 {
		return domain.Sale{}, store.ErrInvalidInput
	}

	order := make([]string, 0, len(req.ProductIDs))
	quantities := make(map[string]int, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if id == "" {
			return domain.Sale{}, store.ErrInvalidInput
		}
		if quantities[id] == 0 {
			order = append(order, id)
		}
		quantities[id]++
	}

	items := make([]domain.SaleItem, 0, len(order))
	total := 0.0
	for _, id := range order {
		product, err := s.repo.GetProductByID(ctx, id)
		if err != nil {
			return domain.Sale{}, err
		}
		qty := quantities[id]
		items = append(items, domain.SaleItem{
			ProductID:     id,
			Quantity:      qty,
			UnitSellPrice: product.SellPrice,
		})
		total += product.SellPrice * float64(qty)
	}

	sale := domain.Sale{
		ID:         xid.New("sale"),
		CustomerID: req.CustomerID,
		TotalValue: round2(total),
		IsPaid:     req.IsPaid,
		CreatedAt:  time.Now().UTC(),
		Items:      items,
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.Sale{}, err
	}

	s.logAudit(ctx, "sale_create", "sale", created.ID, fmt.Sprintf("customer=%s,total=%.2f,paid=%t", created.CustomerID, created.TotalValue, created.IsPaid))
	return *created, nil
}

// ListAuditLogs returns one day of the trail. The date is a YYYY-MM-DD UTC
// day; an empty date means today.
func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrInvalidInput
		}
		day = parsed
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

// weightedCost folds an incoming restock into the moving-average unit cost,
// rounded to centavos.
func weightedCost(oldCost float64, oldQty int, incomingCost float64, incomingQty int) float64 {
	if incomingQty <= 0 || incomingCost <= 0 {
		return oldCost
	}
	if oldQty <= 0 || oldCost <= 0 {
		return incomingCost
	}
	totalQty := oldQty + incomingQty
	totalValue := oldCost*float64(oldQty) + incomingCost*float64(incomingQty)
	return round2(totalValue / float64(totalQty))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
