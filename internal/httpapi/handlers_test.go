package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"netobebidas/backend/internal/analytics"
	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/service"
	"netobebidas/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	t.Setenv("SEED_ADMIN_PASSWORD", "segredo123")

	repo := memory.NewSeeded()
	svc := service.New(repo)
	engine := analytics.NewEngine(repo, nil, 0)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, engine, auth, "*")
}

// loginToken signs in as the seeded operator and returns the bearer token.
func loginToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": "neto",
		"password": "segredo123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if body.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	return body.AccessToken
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestProductsRequireAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products", "not-a-real-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestListProducts(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var products []domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected seeded products")
	}
}

func TestListProductsNameFilter(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products?q=lata", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var products []domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected lata matches")
	}
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), "lata") {
			t.Fatalf("unexpected product in filtered list: %s", p.Name)
		}
	}
}

func TestCreateProductThenReplenish(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Name:      "Cerveja Original 600ml",
		CostPrice: 6.00,
		SellPrice: 12.00,
		Stock:     24,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var created domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Name:      "cerveja original 600ml",
		CostPrice: 8.00,
		SellPrice: 13.00,
		Stock:     24,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var replenished domain.Product
	if err := json.NewDecoder(rec.Body).Decode(&replenished); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if replenished.ID != created.ID {
		t.Fatalf("expected replenishment of existing product")
	}
	if replenished.Stock != 48 {
		t.Fatalf("expected stock 48, got %d", replenished.Stock)
	}
	if replenished.CostPrice != 7.00 {
		t.Fatalf("expected weighted cost 7.00, got %.2f", replenished.CostPrice)
	}
}

func TestUpdateProductValidation(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	badStock := -1
	rec := doJSON(t, handler, http.MethodPut, "/api/v1/products/prod-skol-lata", token, domain.ProductUpdateRequest{
		Stock: &badStock,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative stock, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPut, "/api/v1/products/prod-missing", token, domain.ProductUpdateRequest{})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, domain.SaleCreateRequest{
		CustomerID: "cust-ze",
		ProductIDs: []string{"prod-skol-lata", "prod-skol-lata", "prod-coca-2l"},
		IsPaid:     false,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var sale domain.Sale
	if err := json.NewDecoder(rec.Body).Decode(&sale); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if sale.TotalValue != 19.00 {
		t.Fatalf("expected total 19.00, got %.2f", sale.TotalValue)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary domain.DashboardSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalSold != 19.00 {
		t.Fatalf("expected total sold 19.00, got %.2f", summary.TotalSold)
	}
	// Seeded debt 165.50 plus the new fiado.
	if summary.TotalDebt != 184.50 {
		t.Fatalf("expected total debt 184.50, got %.2f", summary.TotalDebt)
	}
	if summary.TotalCash != summary.TotalSold-summary.TotalDebt {
		t.Fatalf("cash must reconcile with sold minus debt")
	}
}

func TestSaleOutOfStockConflict(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	ids := make([]string, 0, 11)
	for i := 0; i < 11; i++ {
		ids = append(ids, "prod-vodka-smir")
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, domain.SaleCreateRequest{
		CustomerID: "cust-ze",
		ProductIDs: ids,
		IsPaid:     true,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for oversell, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestPayDebtEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/customers/cust-maria/pay", token, domain.DebtPaymentRequest{Amount: 45.50})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var customer domain.Customer
	if err := json.NewDecoder(rec.Body).Decode(&customer); err != nil {
		t.Fatalf("decode customer: %v", err)
	}
	if customer.Debt != 0 {
		t.Fatalf("expected settled debt, got %.2f", customer.Debt)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/customers/cust-maria/pay", token, domain.DebtPaymentRequest{Amount: -1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", rec.Code)
	}
}

func TestRevenueReportFilters(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, domain.SaleCreateRequest{
		CustomerID: "cust-ze",
		ProductIDs: []string{"prod-skol-lata", "prod-coca-2l"},
		IsPaid:     true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/reports/revenue?days=7&product_id=prod-skol-lata", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var points []domain.RevenuePoint
	if err := json.NewDecoder(rec.Body).Decode(&points); err != nil {
		t.Fatalf("decode points: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	if points[0].Total != 4.50 {
		t.Fatalf("expected filtered total 4.50, got %.2f", points[0].Total)
	}
}

func TestValuationEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/inventory/valuation", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var valuation domain.StockValuation
	if err := json.NewDecoder(rec.Body).Decode(&valuation); err != nil {
		t.Fatalf("decode valuation: %v", err)
	}
	if valuation.TotalCost <= 0 || valuation.PotentialRevenue <= valuation.TotalCost {
		t.Fatalf("expected positive margins on the seeded catalog, got %+v", valuation)
	}
}

func TestAuditLogsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/customers", token, domain.CustomerCreateRequest{Name: "Dona Rosa"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/audit-logs", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var logs []domain.AuditLog
	if err := json.NewDecoder(rec.Body).Decode(&logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs) == 0 {
		t.Fatalf("expected audit entries")
	}
	if logs[0].ActorUsername != "neto" {
		t.Fatalf("expected actor from token, got %s", logs[0].ActorUsername)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/audit-logs?date=banana", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginToken(t, handler)

	payload := []byte(`{"name":"X","sell_price":1,"cost_price":1,"stock":1,"surprise":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}
