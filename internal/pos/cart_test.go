package pos

import (
	"errors"
	"testing"

	"netobebidas/backend/internal/domain"
)

func TestCartAddRespectsStockSnapshot(t *testing.T) {
	cart := NewCart()
	skol := domain.Product{ID: "prod-skol", Name: "Skol Lata", SellPrice: 4.50, Stock: 2}

	if _, err := cart.Add(skol, skol.Stock); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := cart.Add(skol, skol.Stock); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	_, err := cart.Add(skol, skol.Stock)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock on third add, got %v", err)
	}
	if cart.Len() != 2 {
		t.Fatalf("expected 2 slots, got %d", cart.Len())
	}
}

func TestCartAddZeroStockIsOutOfStock(t *testing.T) {
	cart := NewCart()
	empty := domain.Product{ID: "prod-empty", Name: "Esgotado", SellPrice: 5, Stock: 0}

	_, err := cart.Add(empty, empty.Stock)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
}

func TestCartRemoveFreesCapacity(t *testing.T) {
	cart := NewCart()
	skol := domain.Product{ID: "prod-skol", Name: "Skol Lata", SellPrice: 4.50, Stock: 1}

	item, err := cart.Add(skol, skol.Stock)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := cart.Add(skol, skol.Stock); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	cart.Remove(item.SlotID)
	if cart.Len() != 0 {
		t.Fatalf("expected empty cart after remove, got %d slots", cart.Len())
	}
	if _, err := cart.Add(skol, skol.Stock); err != nil {
		t.Fatalf("expected add to succeed after remove, got %v", err)
	}
}

func TestCartRemoveUnknownSlotIsNoop(t *testing.T) {
	cart := NewCart()
	skol := domain.Product{ID: "prod-skol", Name: "Skol Lata", SellPrice: 4.50, Stock: 5}
	if _, err := cart.Add(skol, skol.Stock); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart.Remove("slot-does-not-exist")
	if cart.Len() != 1 {
		t.Fatalf("expected cart untouched, got %d slots", cart.Len())
	}
}

func TestCartTotalSumsSlotPrices(t *testing.T) {
	cart := NewCart()
	skol := domain.Product{ID: "prod-skol", Name: "Skol Lata", SellPrice: 4.50, Stock: 10}
	coca := domain.Product{ID: "prod-coca", Name: "Coca 2L", SellPrice: 10.00, Stock: 10}

	for i := 0; i < 3; i++ {
		if _, err := cart.Add(skol, skol.Stock); err != nil {
			t.Fatalf("add skol failed: %v", err)
		}
	}
	if _, err := cart.Add(coca, coca.Stock); err != nil {
		t.Fatalf("add coca failed: %v", err)
	}

	if cart.Total() != 23.50 {
		t.Fatalf("expected total 23.50, got %.2f", cart.Total())
	}

	ids := cart.ProductIDs()
	want := []string{"prod-skol", "prod-skol", "prod-skol", "prod-coca"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected id %s at %d, got %s", want[i], i, ids[i])
		}
	}
}

func TestCartItemsReturnsCopy(t *testing.T) {
	cart := NewCart()
	skol := domain.Product{ID: "prod-skol", Name: "Skol Lata", SellPrice: 4.50, Stock: 5}
	if _, err := cart.Add(skol, skol.Stock); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	items := cart.Items()
	items[0].ProductID = "mutated"
	if cart.Items()[0].ProductID != "prod-skol" {
		t.Fatalf("expected cart isolated from returned slice")
	}
}
