package pos

import (
	"netobebidas/backend/internal/domain"
	"netobebidas/backend/internal/xid"
)

// Cart is the sale-in-progress: one slot per unit, so the same product added
// three times occupies three slots. Slots carry the price seen at add time.
// The cart is an advisory reservation only; the server re-verifies stock at
// commit.
type Cart struct {
	items []domain.CartItem
}

func NewCart() *Cart {
	return &Cart{items: make([]domain.CartItem, 0, 8)}
}

// Add reserves one more unit of the product against the given stock
// snapshot. A product with no stock at all reads as out of stock; one whose
// units are already fully reserved in the cart reads as insufficient.
func (c *Cart) Add(product domain.Product, stockSnapshot int) (domain.CartItem, error) {
	if stockSnapshot <= 0 {
		return domain.CartItem{}, ErrOutOfStock
	}
	if c.CountOf(product.ID) >= stockSnapshot {
		return domain.CartItem{}, ErrInsufficientStock
	}

	item := domain.CartItem{
		SlotID:    xid.New("slot"),
		ProductID: product.ID,
		Name:      product.Name,
		SellPrice: product.SellPrice,
	}
	c.items = append(c.items, item)
	return item, nil
}

// Remove drops the slot with the given id. Removing an unknown slot is a
// no-op.
func (c *Cart) Remove(slotID string) {
	for i, item := range c.items {
		if item.SlotID == slotID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) CountOf(productID string) int {
	count := 0
	for _, item := range c.items {
		if item.ProductID == productID {
			count++
		}
	}
	return count
}

func (c *Cart) Total() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.SellPrice
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns a copy of the slots in insertion order.
func (c *Cart) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// ProductIDs flattens the cart into the wire form the server expects: one
// product id per slot, insertion order preserved.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (c *Cart) Clear() {
	c.items = c.items[:0]
}
