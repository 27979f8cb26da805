package pos

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"netobebidas/backend/internal/analytics"
	"netobebidas/backend/internal/catalog"
	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/inventory"
)

// SaleState is the derived lifecycle of the sale-in-progress.
type SaleState string

const (
	SaleStateEmpty      SaleState = "empty"
	SaleStateBuilding   SaleState = "building"
	SaleStateSubmitting SaleState = "submitting"
)

// Session is one operator's working state at the terminal: the signed-in
// credential, the cached server collections, and the sale being built. All
// dashboard figures are derived from the cached collections, never stored.
//
// A Session belongs to a single terminal loop and is not safe for
// concurrent use.
type Session struct {
	client Client

	signedIn   bool
	submitting bool

	products  []domain.Product
	customers []domain.Customer
	sales     []domain.Sale

	cart               *Cart
	selectedCustomerID string
}

func NewSession(client Client) *Session {
	return &Session{
		client: client,
		cart:   NewCart(),
	}
}

// Login authenticates and loads the initial collections. A credential that
// authenticates but cannot fetch is torn down again.
func (s *Session) Login(ctx context.Context, username string, password string) error {
	if err := s.client.Login(ctx, username, password); err != nil {
		return err
	}
	s.signedIn = true

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

// Refresh refetches products, customers and sales concurrently and swaps
// all three in only when every fetch succeeded, so the cached collections
// never mix two server states. A credential rejection signs the session out.
func (s *Session) Refresh(ctx context.Context) error {
	var (
		products  []domain.Product
		customers []domain.Customer
		sales     []domain.Sale
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.client.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.client.ListCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.client.ListSales(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.handleRemoteError(err)
		return err
	}

	s.products = products
	s.customers = customers
	s.sales = sales
	return nil
}

func (s *Session) SignedIn() bool {
	return s.signedIn
}

// SignOut drops the credential and every piece of session state, including
// a sale in progress.
func (s *Session) SignOut() {
	s.client.ClearCredential()
	s.signedIn = false
	s.submitting = false
	s.products = nil
	s.customers = nil
	s.sales = nil
	s.cart.Clear()
	s.selectedCustomerID = ""
}

func (s *Session) State() SaleState {
	switch {
	case s.submitting:
		return SaleStateSubmitting
	case s.cart.Len() > 0:
		return SaleStateBuilding
	default:
		return SaleStateEmpty
	}
}

func (s *Session) Products() []domain.Product {
	return s.products
}

// SearchProducts filters the cached catalog by name.
func (s *Session) SearchProducts(query string) []domain.Product {
	return catalog.FilterByName(s.products, query)
}

func (s *Session) Customers() []domain.Customer {
	return s.customers
}

// SearchCustomers filters the cached customer list by name.
func (s *Session) SearchCustomers(query string) []domain.Customer {
	return catalog.FilterCustomersByName(s.customers, query)
}

func (s *Session) Sales() []domain.Sale {
	return s.sales
}

func (s *Session) Cart() *Cart {
	return s.cart
}

func (s *Session) SelectCustomer(customerID string) {
	s.selectedCustomerID = customerID
}

func (s *Session) SelectedCustomerID() string {
	return s.selectedCustomerID
}

// AddToCart reserves one unit of the product against the cached stock
// snapshot. The guard is advisory; the server re-verifies at commit.
func (s *Session) AddToCart(productID string) (domain.CartItem, error) {
	for _, p := range s.products {
		if p.ID == productID {
			return s.cart.Add(p, p.Stock)
		}
	}
	return domain.CartItem{}, ErrOutOfStock
}

func (s *Session) RemoveFromCart(slotID string) {
	s.cart.Remove(slotID)
}

// FinishSale commits the sale-in-progress. Validation failures surface
// before any remote call. On server acknowledgment the cart is cleared and
// every collection is refetched; on failure the cart survives untouched so
// the operator can retry.
func (s *Session) FinishSale(ctx context.Context, isPaid bool) (domain.Sale, error) {
	if s.selectedCustomerID == "" {
		return domain.Sale{}, ErrNoCustomerSelected
	}
	if s.cart.Len() == 0 {
		return domain.Sale{}, ErrEmptyCart
	}

	s.submitting = true
	defer func() { s.submitting = false }()

	sale, err := s.client.CreateSale(ctx, domain.SaleCreateRequest{
		CustomerID: s.selectedCustomerID,
		ProductIDs: s.cart.ProductIDs(),
		IsPaid:     isPaid,
	})
	if err != nil {
		s.handleRemoteError(err)
		return domain.Sale{}, err
	}

	s.cart.Clear()
	s.selectedCustomerID = ""

	if err := s.Refresh(ctx); err != nil {
		return sale, err
	}
	return sale, nil
}

// PayDebt records a fiado payment and refreshes. Overpayment is allowed;
// the server clamps the balance at zero.
func (s *Session) PayDebt(ctx context.Context, customerID string, amount float64) (domain.Customer, error) {
	if amount <= 0 {
		return domain.Customer{}, ErrInvalidAmount
	}

	customer, err := s.client.PayCustomerDebt(ctx, customerID, domain.DebtPaymentRequest{Amount: amount})
	if err != nil {
		s.handleRemoteError(err)
		return domain.Customer{}, err
	}

	if err := s.Refresh(ctx); err != nil {
		return customer, err
	}
	return customer, nil
}

func (s *Session) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	product, err := s.client.CreateProduct(ctx, req)
	if err != nil {
		s.handleRemoteError(err)
		return domain.Product{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return product, err
	}
	return product, nil
}

func (s *Session) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	product, err := s.client.UpdateProduct(ctx, id, req)
	if err != nil {
		s.handleRemoteError(err)
		return domain.Product{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return product, err
	}
	return product, nil
}

func (s *Session) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	customer, err := s.client.CreateCustomer(ctx, req)
	if err != nil {
		s.handleRemoteError(err)
		return domain.Customer{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return customer, err
	}
	return customer, nil
}

// Summary derives the dashboard totals from the cached collections.
func (s *Session) Summary() domain.DashboardSummary {
	return analytics.Summarize(s.sales, s.customers)
}

// Valuation prices the cached catalog at cost and at shelf price.
func (s *Session) Valuation() domain.StockValuation {
	return inventory.Value(s.products)
}

func (s *Session) TopCustomers(limit int) []domain.CustomerRevenue {
	return analytics.TopCustomers(s.sales, limit)
}

func (s *Session) Revenue(days int, productID string) []domain.RevenuePoint {
	return analytics.RevenueSeries(s.sales, days, productID, time.Now().UTC())
}

func (s *Session) handleRemoteError(err error) {
	if errors.Is(err, ErrUnauthorized) {
		s.SignOut()
	}
}
