package pos

import (
	"context"

	"netobebidas/backend/internal/domain"
)

// Client is the remote surface the terminal talks to. Implementations must
// return ErrUnauthorized (possibly wrapped) on credential rejection and wrap
// everything else in ErrRemote.
type Client interface {
	Login(ctx context.Context, username string, password string) error
	ClearCredential()

	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)

	CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error)
	CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error)
	PayCustomerDebt(ctx context.Context, customerID string, req domain.DebtPaymentRequest) (domain.Customer, error)
	CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error)
}
