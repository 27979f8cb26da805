package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"netobebidas/backend/internal/domain"
)

// APIClient talks to the ledger server over HTTP with a bearer token.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) Login(ctx context.Context, username string, password string) error {
	var resp domain.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", domain.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

func (c *APIClient) ClearCredential() {
	c.token = ""
}

func (c *APIClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *APIClient) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.do(ctx, http.MethodGet, "/api/v1/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *APIClient) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := c.do(ctx, http.MethodGet, "/api/v1/sales", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *APIClient) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/v1/products", req, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *APIClient) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/api/v1/products/"+id, req, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *APIClient) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	var customer domain.Customer
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers", req, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (c *APIClient) PayCustomerDebt(ctx context.Context, customerID string, req domain.DebtPaymentRequest) (domain.Customer, error) {
	var customer domain.Customer
	if err := c.do(ctx, http.MethodPost, "/api/v1/customers/"+customerID+"/pay", req, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (c *APIClient) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	var sale domain.Sale
	if err := c.do(ctx, http.MethodPost, "/api/v1/sales", req, &sale); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (c *APIClient) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrRemote, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		message := resp.Status
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return fmt.Errorf("%w: %s", ErrRemote, message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}
	return nil
}
