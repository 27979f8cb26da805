package domain

import "time"

// Product is a catalog entry. CostPrice is the moving-average unit
// acquisition cost across restocks; SellPrice is the current unit price.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CostPrice float64 `json:"cost_price"`
	SellPrice float64 `json:"sell_price"`
	Stock     int     `json:"stock"`
}

type ProductCreateRequest struct {
	Name      string  `json:"name"`
	CostPrice float64 `json:"cost_price"`
	SellPrice float64 `json:"sell_price"`
	Stock     int     `json:"stock"`
}

// ProductUpdateRequest is a direct correction. Stock, when set, overwrites
// the stored quantity absolutely rather than adding to it.
type ProductUpdateRequest struct {
	Name      *string  `json:"name,omitempty"`
	CostPrice *float64 `json:"cost_price,omitempty"`
	SellPrice *float64 `json:"sell_price,omitempty"`
	Stock     *int     `json:"stock,omitempty"`
}

// Customer carries the fiado ledger: Debt only grows through unpaid sales
// and only shrinks through recorded payments.
type Customer struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Debt float64 `json:"debt"`
}

type CustomerCreateRequest struct {
	Name string `json:"name"`
}

type DebtPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// SaleItem is one line of a committed sale with the unit price captured at
// sale time, so later price corrections never rewrite history.
type SaleItem struct {
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	UnitSellPrice float64 `json:"unit_sell_price"`
}

type Sale struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	TotalValue   float64    `json:"total_value"`
	IsPaid       bool       `json:"is_paid"`
	CreatedAt    time.Time  `json:"created_at"`
	Items        []SaleItem `json:"items"`
}

// SaleCreateRequest carries one product id per cart slot: a product sold
// three times appears three times. The server collapses repeats into
// quantity lines.
type SaleCreateRequest struct {
	CustomerID string   `json:"customer_id"`
	ProductIDs []string `json:"product_ids"`
	IsPaid     bool     `json:"is_paid"`
}

// CartItem is a transient line reservation held client-side between "add to
// cart" and either removal or sale commit. SlotID distinguishes repeated
// instances of the same product within one sale-in-progress.
type CartItem struct {
	SlotID    string  `json:"slot_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	SellPrice float64 `json:"sell_price"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Actor struct {
	Username string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Active    bool
	CreatedAt time.Time
}

// DashboardSummary reconciles the ledger: TotalCash is what actually landed
// in the register, i.e. everything ever sold minus what is still owed.
type DashboardSummary struct {
	TotalSold float64 `json:"total_sold"`
	TotalDebt float64 `json:"total_debt"`
	TotalCash float64 `json:"total_cash"`
}

type CustomerRevenue struct {
	CustomerName string  `json:"customer_name"`
	TotalValue   float64 `json:"total_value"`
}

// RevenuePoint is one calendar-day bucket of a revenue series. Date is the
// sortable YYYY-MM-DD key; Label is the DD/MM display form derived from it.
type RevenuePoint struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// StockValuation aggregates the catalog at cost and at sell price. Negative
// stock anomalies are clamped to zero before multiplying.
type StockValuation struct {
	TotalCost        float64 `json:"total_cost"`
	PotentialRevenue float64 `json:"potential_revenue"`
	PotentialProfit  float64 `json:"potential_profit"`
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
